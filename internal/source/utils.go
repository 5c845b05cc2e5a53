package source

import (
	"path/filepath"
	"slices"
)

// normalizeCRLF replaces every \r\n with \n. Lone \r bytes are kept.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i++
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/16+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // bounded by file size
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// binary search for the last newline strictly before off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if hi < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	start := lineIdx[hi] + 1
	return LineCol{Line: uint32(hi + 2), Col: off - start + 1} //nolint:gosec // hi < len(lineIdx)
}

func lineBounds(f *File, line uint32) (start, end uint32) {
	size := uint32(len(f.Content)) //nolint:gosec // bounded by file size
	if line == 0 {
		return 0, 0
	}
	idx := int(line) - 1
	switch {
	case idx == 0:
		start = 0
	case idx-1 < len(f.LineIdx):
		start = f.LineIdx[idx-1] + 1
	default:
		return size, size
	}
	if idx < len(f.LineIdx) {
		end = f.LineIdx[idx]
	} else {
		end = size
	}
	return start, end
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
