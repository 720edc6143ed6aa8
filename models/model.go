package models

import "fmt"

type Technology string

const (
	LTE  Technology = "LTE"
	UMTS Technology = "UMTS"
	GSM  Technology = "GSM"
)

// Technologies lists the radio technologies in report order.
var Technologies = []Technology{LTE, UMTS, GSM}

const (
	SiteName          = "Site Name"
	CellName          = "Cell Name"
	CellNameShort     = "Cell Name Short"
	ENodeBID          = "eNodeB ID"
	PCI               = "PCI"
	RSI               = "RSI"
	TAC               = "TAC"
	DownlinkBandwidth = "Downlink bandwidth"
	CellID            = "Cell ID"
	LAC               = "LAC"
	RAC               = "RAC"
	PSC               = "PSC"
	BCCH              = "BCCH"
	BSIC              = "BSIC"
	NCC               = "NCC"
	BCC               = "BCC"

	// Suffixes of the raw value columns kept next to a comparison column.
	SheetSuffix = "_x"
	DBSuffix    = "_y"

	MissingSheet     = "Missing"
	TechnologyColumn = "Technology"
)

// Schema declares the final shape of one technology table.
type Schema struct {
	Columns  []string `yaml:"columns"`
	Numeric  []string `yaml:"numeric"`
	Keys     []string `yaml:"keys"`
	Identity string   `yaml:"identity"`
}

// Compared returns the declared columns that are not join keys.
func (s Schema) Compared() []string {
	keys := make(map[string]struct{}, len(s.Keys))
	for _, k := range s.Keys {
		keys[k] = struct{}{}
	}
	var out []string
	for _, c := range s.Columns {
		if _, ok := keys[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

func (s Schema) Has(column string) bool {
	for _, c := range s.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Validate checks that keys, identity and numeric columns are declared columns.
func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("no columns declared")
	}
	if len(s.Keys) == 0 {
		return fmt.Errorf("no key columns declared")
	}
	for _, k := range s.Keys {
		if !s.Has(k) {
			return fmt.Errorf("key column %q is not declared", k)
		}
	}
	if !s.Has(s.Identity) {
		return fmt.Errorf("identity column %q is not declared", s.Identity)
	}
	for _, n := range s.Numeric {
		if !s.Has(n) {
			return fmt.Errorf("numeric column %q is not declared", n)
		}
	}
	return nil
}

// Schemas maps every technology to its table schema.
type Schemas map[Technology]Schema

func DefaultSchemas() Schemas {
	return Schemas{
		LTE: {
			Columns:  []string{SiteName, CellName, ENodeBID, PCI, RSI, TAC, DownlinkBandwidth},
			Numeric:  []string{ENodeBID, PCI, RSI, TAC},
			Keys:     []string{CellName, SiteName},
			Identity: CellName,
		},
		UMTS: {
			Columns:  []string{SiteName, CellNameShort, CellName, CellID, LAC, RAC, PSC},
			Numeric:  []string{CellID, LAC, RAC, PSC},
			Keys:     []string{CellNameShort, SiteName},
			Identity: CellNameShort,
		},
		GSM: {
			Columns:  []string{SiteName, CellName, LAC, BCCH, NCC, BCC},
			Numeric:  []string{LAC, BCCH, NCC, BCC},
			Keys:     []string{CellName, SiteName},
			Identity: CellName,
		},
	}
}
