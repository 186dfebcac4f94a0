package fat12

import "strings"

// Report is the capacity/occupancy summary diskinfo prints: total disk size,
// free space remaining, and the number of regular files across the whole
// tree. CSV tags let diskinfo emit the same report as one row via
// gocsv.MarshalString.
type Report struct {
	OSName         string `csv:"os_name"`
	VolumeLabel    string `csv:"volume_label"`
	BytesPerSector uint16 `csv:"bytes_per_sector"`
	SectorsPerFAT  uint16 `csv:"sectors_per_fat"`
	TotalSectors   uint16 `csv:"total_sectors"`
	FreeClusters   int    `csv:"free_clusters"`
	FreeBytes      int64  `csv:"free_bytes"`
	FileCount      int    `csv:"file_count"`
}

// BuildReport walks the image's full directory tree and combines it with the
// boot sector and FAT to produce a Report. When the boot sector's volume
// label is blank, it falls back to the root directory's 0x08-attribute entry,
// if one exists.
func BuildReport(bs *BootSector, fat *FAT, walker *Walker) (Report, error) {
	fileCount, err := walker.CountFiles()
	if err != nil {
		return Report{}, err
	}

	volumeLabel := bs.VolumeLabel
	if strings.TrimSpace(volumeLabel) == "" {
		if label, ok, err := walker.RootVolumeLabel(); err != nil {
			return Report{}, err
		} else if ok {
			volumeLabel = label
		}
	}

	free := fat.CountFree()
	return Report{
		OSName:         bs.OSName,
		VolumeLabel:    volumeLabel,
		BytesPerSector: bs.BytesPerSector,
		SectorsPerFAT:  bs.SectorsPerFAT,
		TotalSectors:   bs.TotalSectors16,
		FreeClusters:   free,
		FreeBytes:      int64(free) * bs.BytesPerCluster(),
		FileCount:      fileCount,
	}, nil
}
