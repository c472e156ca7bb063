// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gaissmai/bvgraph/internal/bitio"
)

// Properties holds the metadata spec §6 requires to sit alongside the bit
// stream: node/arc counts, the structural parameters and the per-field
// code configuration, byte order and total bit length.
type Properties struct {
	Nodes             int64
	Arcs              int64
	WindowSize        int
	MaxRefCount       int
	MinIntervalLength int
	Codes             Config
	ByteOrder         ByteOrder
	BitsPerLink       float64 // informational only
	Length            uint64  // total bit length of B.graph
}

// ByteOrder names the 32-bit-word endianness B.graph was written with
// (spec §6: "Byte order is selectable ... at the 32-bit word level").
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (b ByteOrder) String() string {
	if b == BigEndian {
		return "big"
	}
	return "little"
}

func parseByteOrder(s string) (ByteOrder, error) {
	switch s {
	case "little":
		return LittleEndian, nil
	case "big":
		return BigEndian, nil
	default:
		return 0, fmt.Errorf("bvgraph: unknown byteorder %q", s)
	}
}

// WriteProperties serializes p as UTF-8 key=value lines, one per line, per
// spec §6.
func WriteProperties(w io.Writer, p Properties) error {
	lines := []string{
		"# bvgraph properties",
		fmt.Sprintf("nodes=%d", p.Nodes),
		fmt.Sprintf("arcs=%d", p.Arcs),
		fmt.Sprintf("windowsize=%d", p.WindowSize),
		fmt.Sprintf("maxrefcount=%d", p.MaxRefCount),
		fmt.Sprintf("minintervallength=%d", p.MinIntervalLength),
		fmt.Sprintf("compressionflags=%s", encodeCompressionFlags(p.Codes)),
		fmt.Sprintf("byteorder=%s", p.ByteOrder),
		fmt.Sprintf("bitsperlink=%g", p.BitsPerLink),
		fmt.Sprintf("length=%d", p.Length),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// ReadProperties parses a properties file; extra keys are ignored, lines
// beginning with '#' are comments.
func ReadProperties(r io.Reader) (Properties, error) {
	kv := make(map[string]string)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		kv[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if err := sc.Err(); err != nil {
		return Properties{}, err
	}

	var p Properties
	var err error
	if p.Nodes, err = parseInt64(kv, "nodes"); err != nil {
		return Properties{}, err
	}
	if p.Arcs, err = parseInt64(kv, "arcs"); err != nil {
		return Properties{}, err
	}
	if p.WindowSize, err = parseInt(kv, "windowsize"); err != nil {
		return Properties{}, err
	}
	if p.MaxRefCount, err = parseInt(kv, "maxrefcount"); err != nil {
		return Properties{}, err
	}
	if p.MinIntervalLength, err = parseInt(kv, "minintervallength"); err != nil {
		return Properties{}, err
	}
	if p.Codes, err = decodeCompressionFlags(kv["compressionflags"]); err != nil {
		return Properties{}, err
	}
	p.Codes.Window = p.WindowSize
	p.Codes.MaxRefCount = p.MaxRefCount
	p.Codes.MinIntervalLength = p.MinIntervalLength
	if p.ByteOrder, err = parseByteOrder(kv["byteorder"]); err != nil {
		return Properties{}, err
	}
	if s, ok := kv["bitsperlink"]; ok {
		if p.BitsPerLink, err = strconv.ParseFloat(s, 64); err != nil {
			return Properties{}, err
		}
	}
	if s, ok := kv["length"]; ok {
		var l int64
		if l, err = strconv.ParseInt(s, 10, 64); err != nil {
			return Properties{}, err
		}
		p.Length = uint64(l)
	}

	return p, nil
}

func parseInt64(kv map[string]string, key string) (int64, error) {
	s, ok := kv[key]
	if !ok {
		return 0, fmt.Errorf("bvgraph: properties missing required key %q", key)
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseInt(kv map[string]string, key string) (int, error) {
	v, err := parseInt64(kv, key)
	return int(v), err
}

// fieldOrder is the documented order of spec §6's compressionflags: field
// codes are written/read in this order every time.
var fieldOrder = [9]string{
	"outdegree", "referenceoffset", "blockcount", "block",
	"intervalcount", "intervalstart", "intervallength",
	"firstresidual", "residual",
}

func encodeCompressionFlags(c Config) string {
	fields := c.Fields()
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fieldOrder[i] + ":" + codeName(f)
	}
	return strings.Join(parts, ",")
}

func codeName(c bitio.Code) string {
	switch c.Family {
	case bitio.Zeta:
		return fmt.Sprintf("ZETA_%d", c.Param)
	case bitio.Golomb:
		return fmt.Sprintf("GOLOMB_%d", c.Param)
	default:
		return c.Family.String()
	}
}

func parseCodeName(s string) (bitio.Code, error) {
	switch {
	case strings.HasPrefix(s, "ZETA_"):
		k, err := strconv.ParseUint(s[len("ZETA_"):], 10, 64)
		if err != nil {
			return bitio.Code{}, err
		}
		return bitio.Code{Family: bitio.Zeta, Param: k}, nil
	case strings.HasPrefix(s, "GOLOMB_"):
		b, err := strconv.ParseUint(s[len("GOLOMB_"):], 10, 64)
		if err != nil {
			return bitio.Code{}, err
		}
		return bitio.Code{Family: bitio.Golomb, Param: b}, nil
	case s == "UNARY":
		return bitio.Code{Family: bitio.Unary}, nil
	case s == "GAMMA":
		return bitio.Code{Family: bitio.Gamma}, nil
	case s == "DELTA":
		return bitio.Code{Family: bitio.Delta}, nil
	default:
		return bitio.Code{}, fmt.Errorf("bvgraph: unknown code identifier %q", s)
	}
}

func decodeCompressionFlags(s string) (Config, error) {
	var c Config
	fields := make([]bitio.Code, 9)

	for _, part := range strings.Split(s, ",") {
		name, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		i := indexOf(fieldOrder[:], name)
		if i < 0 {
			continue
		}
		code, err := parseCodeName(val)
		if err != nil {
			return Config{}, err
		}
		fields[i] = code
	}

	c.Outdegree = fields[0]
	c.ReferenceOffset = fields[1]
	c.BlockCount = fields[2]
	c.Block = fields[3]
	c.IntervalCount = fields[4]
	c.IntervalStart = fields[5]
	c.IntervalLength = fields[6]
	c.FirstResidual = fields[7]
	c.Residual = fields[8]
	return c, nil
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
