package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"WooWithOdoo/pkg/logging"
)

// Mapping resolves a WooCommerce line-item key to one or more Odoo barcodes.
// A missing key is a skip signal for the caller, never an error.
type Mapping struct {
	table map[string][]string
}

// builtin table used when the mapping file does not exist
var builtin = map[string]string{
	"13782": "202500000059",
	"13783": "202500000053",
	"13787": "202500000059",
	"13825": "202500000059",
	"13785": "202500000055",
	"13788": "202500000059",
	"13806": "202500000065",
	"13807": "202500000068",
	"13808": "202500000078",
	"13809": "202500000067",
	"13810": "202500000055",
	"13811": "202500000052",
	"13812": "202500000073",
	"13813": "202500000066",
	"13815": "202500000069",
	"13816": "202500000070",
	"13817": "202500000061",
	"13818": "202500000062",
	"13820": "202500000058",
	"13835": "202500000061",
	"13836": "202500000062",
	"13849": "202500000063",
	"14050": "202500000081",
	"14051": "202500000082",
	"14052": "202500000079",
	"14053": "202500000079",
	"14054": "202500000082",
	"14055": "202500000079",
	"14056": "202500000082",
	"14057": "202500000079",
	"14058": "202500000082",
	"14059": "202500000084",
	"14060": "202500000081",
	"14061": "202500000081",
	"14062": "202500000081",
	"14063": "202500000083",
	"14064": "202500000083",
	"14065": "202500000080",
	"14066": "202500000080",
	"14067": "202500000080",
	"14068": "202500000085",
	"14069": "202500000086",
	"14070": "202500000087",
	"14234": "202500000077",
	"14240": "202500000060",
	"15427": "202500000086",
	"15428": "202500000087",
	"16085": "202500000061",
	"16086": "202500000062",
}

// NewMapping loads the mapping file. A missing file falls back to the builtin
// table; a broken file yields an empty mapping. Neither case is fatal.
func NewMapping(file string) *Mapping {

	logger := logging.GetLogger()
	logger.Println("NewMapping:>Start")
	defer logger.Println("NewMapping:>End")

	m := &Mapping{table: make(map[string][]string)}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Infof("mapping file %s not found, using builtin mapping", file)
			for key, value := range builtin {
				m.table[key] = []string{value}
			}
			return m
		}
		logger.Errorf("failed read mapping file %s, error: %v", file, err)
		return m
	}

	// values may be a single barcode, a delimited string, a list or a bare
	// number; UseNumber keeps long numeric barcodes out of float64
	var raw map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	err = decoder.Decode(&raw)
	if err != nil {
		logger.Errorf("failed json.Unmarshal mapping file %s, error: %v", file, err)
		return m
	}

	for key, value := range raw {
		barcodes := parseBarcodes(value)
		if len(barcodes) == 0 {
			logger.Infof("mapping key %s has no usable barcode, entry ignored", key)
			continue
		}
		m.table[key] = barcodes
	}

	logger.Infof("mapping loaded from %s, %d entries", file, len(m.table))

	return m
}

func parseBarcodes(value interface{}) []string {
	var out []string
	switch v := value.(type) {
	case string:
		for _, b := range strings.Split(strings.ReplaceAll(v, ";", ","), ",") {
			b = strings.TrimSpace(b)
			if b != "" {
				out = append(out, b)
			}
		}
	case []interface{}:
		for _, item := range v {
			b := strings.TrimSpace(fmt.Sprint(item))
			if b != "" {
				out = append(out, b)
			}
		}
	default:
		b := strings.TrimSpace(fmt.Sprint(v))
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Resolve returns the primary barcode for a key
func (m *Mapping) Resolve(key string) (string, bool) {
	barcodes, ok := m.table[key]
	if !ok || len(barcodes) == 0 {
		return "", false
	}
	return barcodes[0], true
}

// ResolveAll returns every barcode mapped to a key, in file order
func (m *Mapping) ResolveAll(key string) ([]string, bool) {
	barcodes, ok := m.table[key]
	if !ok || len(barcodes) == 0 {
		return nil, false
	}
	return barcodes, true
}

func (m *Mapping) Len() int {
	return len(m.table)
}

// Keys returns all mapped keys, sorted
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, len(m.table))
	for key := range m.table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Barcodes returns the deduplicated union of all mapped barcodes
func (m *Mapping) Barcodes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, key := range m.Keys() {
		for _, b := range m.table[key] {
			if !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	return out
}
