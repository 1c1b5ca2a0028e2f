package cli

import (
	"fmt"
	"io"

	"matchtrip-be/pkg/refund"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// BandFile is the on-disk form of a refund schedule:
//
//	role: all
//	bands:
//	  - days_from: 30
//	    percentage: 100
//	  - days_from: 20
//	    days_to: 29
//	    percentage: 90
type BandFile struct {
	Role  refund.Role   `yaml:"role" mapstructure:"role"`
	Bands []refund.Band `yaml:"bands" mapstructure:"bands"`
}

func loadBandFile(path string) (*BandFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("role", string(refund.RoleAll))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var f BandFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Role != refund.RoleAll && !f.Role.Valid() {
		return nil, fmt.Errorf("%s: role must be traveler, guide or all, got %q", path, f.Role)
	}
	if len(f.Bands) == 0 {
		return nil, fmt.Errorf("%s: no bands defined", path)
	}
	return &f, nil
}

// bandsOrDefault loads path, or falls back to the built-in schedule when path
// is empty.
func bandsOrDefault(path string) (*BandFile, error) {
	if path == "" {
		return &BandFile{Role: refund.RoleAll, Bands: refund.DefaultBands()}, nil
	}
	return loadBandFile(path)
}

func writeBandFile(w io.Writer, f *BandFile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
