package process

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Site names look like AB123 or ABC1234 somewhere inside the cell name.
	siteNameRE = regexp.MustCompile(`[A-Z]{2,3}\d{3,4}`)
	// e.g. "1860 FDD - 20 MHz Altel (E-UTRA Band 3)" -> 20
	bandwidthRE = regexp.MustCompile(`- (\d{1,3})`)
)

var bandwidthCodes = map[string]string{
	"20": "CELL_BW_N100",
	"15": "CELL_BW_N75",
	"10": "CELL_BW_N50",
	"5":  "CELL_BW_N25",
}

// SiteName returns the first site identifier found in cellName, or nil.
func SiteName(cellName any) any {
	s, ok := text(cellName)
	if !ok {
		return nil
	}
	if m := siteNameRE.FindString(s); m != "" {
		return m
	}
	return nil
}

// ShortCellName strips the two-character sector suffix of a UMTS cell name.
func ShortCellName(cellName any) any {
	s, ok := text(cellName)
	if !ok {
		return nil
	}
	r := []rune(s)
	if len(r) < 2 {
		return ""
	}
	return string(r[:len(r)-2])
}

// BandwidthCode maps a frequency band description to its bandwidth code.
func BandwidthCode(band any) any {
	s, ok := text(band)
	if !ok {
		return nil
	}
	m := bandwidthRE.FindStringSubmatch(s)
	if len(m) < 2 {
		return nil
	}
	if code, ok := bandwidthCodes[m[1]]; ok {
		return code
	}
	return nil
}

// ParseBSIC splits a BSIC code into BCC and NCC. Single-character codes are
// left-padded with "0"; BCC is the first character and NCC the second.
func ParseBSIC(bsic any) (bcc, ncc any) {
	s, ok := text(bsic)
	if !ok {
		return nil, nil
	}
	r := []rune(s)
	if len(r) == 1 {
		r = append([]rune{'0'}, r...)
	}
	return string(r[0]), string(r[1])
}

// AreaCode keeps the number of a "Location Area (1234)" style value.
func AreaCode(v any) any {
	s, ok := text(v)
	if !ok {
		return v
	}
	i := strings.LastIndex(s, "(")
	if i < 0 {
		return v
	}
	return strings.TrimSuffix(strings.TrimSpace(s[i+1:]), ")")
}

func text(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		if s == "" {
			return "", false
		}
		return s, true
	default:
		return fmt.Sprintf("%v", s), true
	}
}
