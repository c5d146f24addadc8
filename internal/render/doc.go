// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns the running response buffer into styled terminal
// output.
//
// Rendering is a pure function of (buffer, final): the same inputs
// always produce the same output, so intermediate and final passes may
// safely cover overlapping content. Each invocation runs two passes:
//
//  1. Extraction: math regions (and, in final mode, fenced diagram and
//     code blocks) are pulled out behind positional placeholder tokens
//     so the markdown formatter cannot mangle them.
//  2. Structural: the placeholder-substituted text goes through the
//     markdown formatter, then each placeholder is replaced with the
//     rendered form of its extracted source.
//
// Diagram rendering and code affordances only happen on the final pass
// after stream completion; intermediate passes stay cheap. A math or
// diagram source that fails to render yields a visibly flagged error
// span with the raw source instead of failing the whole document.
package render
