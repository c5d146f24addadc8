// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists glyphchat settings.
//
// Configuration lives in a TOML file:
//   - ~/.glyphchat/config.toml
//
// Providers are plain data: adding a backend means adding a
// [providers.<name>] table, not code. Environment variables override
// the file for the settings that change per invocation.
package config
