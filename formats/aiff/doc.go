// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files via github.com/go-audio/aiff.
package aiff
