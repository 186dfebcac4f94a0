package fat12

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Geometry is a known FAT12 floppy format, used to build a fresh boot sector
// without the caller having to know every BPB field by hand, and matched
// against a decoded boot sector by `diskinfo --csv`.
type Geometry struct {
	Name              string `csv:"name"`
	Slug              string `csv:"slug"`
	BytesPerSector    uint16 `csv:"bytes_per_sector"`
	SectorsPerCluster uint8  `csv:"sectors_per_cluster"`
	ReservedSectors   uint16 `csv:"reserved_sectors"`
	FATCopies         uint8  `csv:"fat_copies"`
	MaxRootEntries    uint16 `csv:"max_root_entries"`
	TotalSectors      uint16 `csv:"total_sectors"`
	SectorsPerFAT     uint16 `csv:"sectors_per_fat"`
	SectorsPerTrack   uint16 `csv:"sectors_per_track"`
	Heads             uint16 `csv:"heads"`
}

// TotalBytes is the nominal capacity of this geometry.
func (g Geometry) TotalBytes() int64 {
	return int64(g.TotalSectors) * int64(g.BytesPerSector)
}

//go:embed geometries.csv
var geometriesRawCSV string

var geometries map[string]Geometry

func init() {
	geometries = make(map[string]Geometry)
	reader := strings.NewReader(geometriesRawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Geometry) error {
		if _, exists := geometries[row.Slug]; exists {
			return fmt.Errorf("duplicate predefined geometry slug %q", row.Slug)
		}
		geometries[row.Slug] = row
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// PredefinedGeometry looks up one of the well-known floppy formats this
// package ships by slug (e.g. "1440kb", "720kb", "1200kb", "360kb").
func PredefinedGeometry(slug string) (Geometry, error) {
	g, ok := geometries[slug]
	if !ok {
		return Geometry{}, fmt.Errorf("no predefined FAT12 geometry named %q", slug)
	}
	return g, nil
}

// Geometry matches this boot sector's (BytesPerSector, SectorsPerCluster,
// TotalSectors16) against the predefined table, returning the known form
// factor when one matches. Informational only — diskinfo's --csv output uses
// it to additionally print the matched geometry name.
func (bs *BootSector) Geometry() (Geometry, bool) {
	for _, g := range geometries {
		if g.BytesPerSector == bs.BytesPerSector &&
			g.SectorsPerCluster == bs.SectorsPerCluster &&
			g.TotalSectors == bs.TotalSectors16 {
			return g, true
		}
	}
	return Geometry{}, false
}

// NewBootSector builds a fresh BootSector from a known geometry, ready to be
// serialized by a formatting tool. osName and volumeLabel are caller-supplied
// since they aren't part of the physical geometry.
func (g Geometry) NewBootSector(osName, volumeLabel string) *BootSector {
	return &BootSector{
		OSName:              osName,
		BytesPerSector:      g.BytesPerSector,
		SectorsPerCluster:   g.SectorsPerCluster,
		ReservedSectorCount: g.ReservedSectors,
		FATCopies:           g.FATCopies,
		MaxRootEntries:      g.MaxRootEntries,
		TotalSectors16:      g.TotalSectors,
		SectorsPerFAT:       g.SectorsPerFAT,
		VolumeLabel:         volumeLabel,
	}
}
