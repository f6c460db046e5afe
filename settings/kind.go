package settings

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies one of the settings files.
type Kind int

const (
	KindMySetting Kind = iota
	KindMySetting2
	KindDJMMySetting
	KindDevSetting
)

// Kinds lists every kind in the order an export writes them.
var Kinds = []Kind{KindMySetting, KindMySetting2, KindDJMMySetting, KindDevSetting}

type kindInfo struct {
	name     string
	brand    string
	version  string
	bodyLen  int
	crcStart int
	fixed    map[int][]byte // body bytes outside the field table
	fields   []Field
}

var kinds = map[Kind]*kindInfo{
	KindMySetting: {
		name:     "MYSETTING",
		brand:    "PIONEER",
		version:  "0.001",
		bodyLen:  40,
		crcStart: HeaderSize,
		fixed: map[int][]byte{
			0:  {0x78, 0x56, 0x34, 0x12, 0x02, 0x00, 0x00, 0x00},
			13: {0x01},
			17: {0x01, 0x01, 0x01},
		},
		fields: mySettingFields,
	},
	KindMySetting2: {
		name:     "MYSETTING2",
		brand:    "PIONEER",
		version:  "0.001",
		bodyLen:  40,
		crcStart: HeaderSize,
		fixed:    map[int][]byte{11: {0x81}},
		fields:   mySetting2Fields,
	},
	KindDJMMySetting: {
		name:     "DJMMYSETTING",
		brand:    "PioneerDJ",
		version:  "1.000",
		bodyLen:  52,
		crcStart: 0,
		fixed: map[int][]byte{
			0: {0x78, 0x56, 0x34, 0x12, 0x01, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00},
		},
		fields: djmMySettingFields,
	},
	KindDevSetting: {
		name:     "DEVSETTING",
		brand:    "PIONEER DJ",
		version:  "0.001",
		bodyLen:  32,
		crcStart: HeaderSize,
		fixed:    map[int][]byte{0: {0x78, 0x56, 0x34, 0x12, 0x01, 0x00, 0x00, 0x00}},
	},
}

func (k Kind) info() *kindInfo {
	if ki, ok := kinds[k]; ok {
		return ki
	}
	panic(fmt.Sprintf("settings: invalid kind %d", int(k)))
}

func (k Kind) valid() bool {
	_, ok := kinds[k]
	return ok
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return k.info().name
}

// FileName returns the name the file has in an export, e.g. "MYSETTING.DAT".
func (k Kind) FileName() string { return k.String() + ".DAT" }

// BodyLen is the size of the body in bytes.
func (k Kind) BodyLen() int { return k.info().bodyLen }

// Fields returns the named fields of the kind in body order.
func (k Kind) Fields() []Field { return k.info().fields }

// KindFromFileName maps a file name such as "PIONEER/MYSETTING2.DAT" to its kind.
func KindFromFileName(path string) (Kind, error) {
	base := strings.ToUpper(filepath.Base(path))
	for _, k := range Kinds {
		if base == k.FileName() {
			return k, nil
		}
	}
	return 0, &FormatError{Path: path, Reason: fmt.Sprintf("unrecognized settings file name %q", filepath.Base(path))}
}
