// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history archives settled chat sessions in a local SQLite
// database and serves listing, search, and markdown export over them.
package history
