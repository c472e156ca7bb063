// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package codec

import "errors"

// Errors returned by Decode, per spec §7's "Format" and "Invariant
// violation" taxonomy. They are fatal to the record being decoded; the
// caller decides whether to abort the whole operation.
var (
	ErrNegativeOutdegree   = errors.New("codec: negative outdegree")
	ErrReferenceOutOfRange = errors.New("codec: reference distance exceeds window")
	ErrReferenceUnresolved = errors.New("codec: reference points outside the back-reference buffer")
	ErrGapUnderflow        = errors.New("codec: residual or interval gap underflow")
	ErrOutdegreeMismatch   = errors.New("codec: reconstructed successor count does not match outdegree")
)
