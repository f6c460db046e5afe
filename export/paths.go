package export

import (
	"fmt"
	"hash/fnv"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Output locations, relative to the export root.
const (
	ContentsDir  = "Contents"
	DatabasePath = "PIONEER/rekordbox/export.pdb"
	ArtworkDir   = "PIONEER/Artwork/00001"
	AnalysisDir  = "PIONEER/USBANLZ"
	SettingsDir  = "PIONEER"

	unknownArtist = "UnknownArtist"
	unknownAlbum  = "UnknownAlbum"

	// Longer file names are cut to shortNameLen characters plus the extension.
	maxNameLen   = 70
	shortNameLen = 44
	maxRenames   = 9
)

var invalidPathChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_", `\`, "_", "|", "_", "?", "_", "*", "_",
)

// SanitizeName replaces the characters FAT file systems reject with '_'.
func SanitizeName(s string) string {
	return invalidPathChars.Replace(s)
}

// baseName returns the last element of a slash or backslash separated path.
func baseName(location string) string {
	if i := strings.LastIndexAny(location, `/\`); i >= 0 {
		return location[i+1:]
	}
	return location
}

// splitExt splits name into stem and extension (with the dot).
func splitExt(name string) (string, string) {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// shortenName applies the 70 character limit: long names keep their first
// 44 characters and the extension.
func shortenName(name string) string {
	if utf8.RuneCountInString(name) <= maxNameLen {
		return name
	}
	stem, ext := splitExt(name)
	r := []rune(stem)
	if len(r) > shortNameLen {
		r = r[:shortNameLen]
	}
	return string(r) + ext
}

// renamed drops the last two characters of the stem and appends "-m".
func renamed(name string, m int) string {
	stem, ext := splitExt(name)
	r := []rune(stem)
	if len(r) >= 2 {
		r = r[:len(r)-2]
	} else {
		r = r[:0]
	}
	return string(r) + "-" + strconv.Itoa(m) + ext
}

// contentPaths assigns /Contents destinations and keeps them unique.
type contentPaths struct {
	used map[string]bool
}

func newContentPaths() *contentPaths {
	return &contentPaths{used: make(map[string]bool)}
}

// assign returns the file name and absolute /Contents path of a track.
func (c *contentPaths) assign(artist, album, location string) (string, string, error) {
	if artist == "" {
		artist = unknownArtist
	}
	if album == "" {
		album = unknownAlbum
	}
	dir := "/" + ContentsDir + "/" + SanitizeName(artist) + "/" + SanitizeName(album) + "/"
	name := SanitizeName(shortenName(baseName(location)))
	for m := 0; c.used[strings.ToLower(dir+name)]; m++ {
		if m == maxRenames {
			return "", "", fmt.Errorf("export: no free file name for %s in %s", baseName(location), dir)
		}
		name = renamed(name, m)
	}
	c.used[strings.ToLower(dir+name)] = true
	return name, dir + name, nil
}

// analysisPaths derives ANLZ directories from an FNV-1a hash of the track
// id. The low 10 bits pick the Pxxx directory and the rest the leaf
// directory; collisions probe the next hash value.
type analysisPaths struct {
	used map[uint32]bool
}

func newAnalysisPaths() *analysisPaths {
	return &analysisPaths{used: make(map[uint32]bool)}
}

func hashID(id uint32) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(id), 10)))
	return h.Sum32()
}

// assign returns the absolute DAT path for a track id.
func (a *analysisPaths) assign(id uint32) string {
	h := hashID(id)
	for a.used[h] {
		h++
	}
	a.used[h] = true
	return AnalysisPath(h)
}

// AnalysisPath formats the DAT path for hash h.
func AnalysisPath(h uint32) string {
	return fmt.Sprintf("/%s/P%03X/%08X/ANLZ0000.DAT", AnalysisDir, h&0x3FF, h>>10)
}

// extPath returns the EXT sibling of a DAT path.
func extPath(dat string) string {
	return strings.TrimSuffix(dat, path.Ext(dat)) + ".EXT"
}

// ArtworkPath returns the absolute path of artwork n, or of its thumbnail.
func ArtworkPath(n uint32, thumbnail bool) string {
	if thumbnail {
		return fmt.Sprintf("/%s/a%d_m.jpg", ArtworkDir, n)
	}
	return fmt.Sprintf("/%s/a%d.jpg", ArtworkDir, n)
}

// rel strips the leading slash of an absolute export path.
func rel(p string) string { return strings.TrimPrefix(p, "/") }
