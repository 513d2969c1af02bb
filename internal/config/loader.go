package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finharvest/finharvest/internal/crawler"
	"github.com/finharvest/finharvest/internal/model"
)

// SourcesFile is the YAML shape of a user-provided sources file:
//
//	sources:
//	  irdai:
//	    domain: insurance
//	    org: IRDAI
//	    seed_urls:
//	      - https://irdai.gov.in/consumer-affairs
//	    allow_patterns:
//	      - 'irdai\.gov\.in/.+\.pdf$'
//	    max_depth: 2
//	    max_pages: 100
type SourcesFile struct {
	Sources map[string]SourceDef `yaml:"sources"`
}

// SourceDef is one source definition in a sources file.
type SourceDef struct {
	Domain        string   `yaml:"domain"`
	Org           string   `yaml:"org"`
	SeedURLs      []string `yaml:"seed_urls"`
	AllowPatterns []string `yaml:"allow_patterns"`
	DenyPatterns  []string `yaml:"deny_patterns"`
	MaxDepth      int      `yaml:"max_depth"`
	MaxPages      int      `yaml:"max_pages"`
	FileTypes     []string `yaml:"file_types"`
}

// LoadSourcesFile reads and compiles user-defined sources from a YAML
// file. Returns ErrSourcesFileNotFound when the file does not exist; any
// invalid definition (bad domain, bad regex, missing seeds) is a hard
// error since a silently dropped source is worse than a failed start.
func LoadSourcesFile(path string) (map[string]*crawler.SourceConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSourcesFileNotFound
		}
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var sf SourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	sources := make(map[string]*crawler.SourceConfig, len(sf.Sources))
	for name, def := range sf.Sources {
		cfg, err := compileSourceDef(name, def)
		if err != nil {
			return nil, err
		}
		sources[name] = cfg
	}
	return sources, nil
}

func compileSourceDef(name string, def SourceDef) (*crawler.SourceConfig, error) {
	maxDepth := def.MaxDepth
	if maxDepth == 0 {
		maxDepth = 2
	}
	maxPages := def.MaxPages
	if maxPages == 0 {
		maxPages = 200
	}

	var fileTypes map[model.FileType]bool
	if len(def.FileTypes) > 0 {
		fileTypes = make(map[model.FileType]bool, len(def.FileTypes))
		for _, s := range def.FileTypes {
			ft, ok := model.ParseFileType(s)
			if !ok {
				return nil, fmt.Errorf("source %s: unknown file type %q", name, s)
			}
			fileTypes[ft] = true
		}
	}

	cfg := &crawler.SourceConfig{
		Name:          name,
		Domain:        model.Domain(def.Domain),
		Org:           def.Org,
		SeedURLs:      def.SeedURLs,
		AllowPatterns: def.AllowPatterns,
		DenyPatterns:  def.DenyPatterns,
		MaxDepth:      maxDepth,
		MaxPages:      maxPages,
		FileTypes:     fileTypes,
	}
	if err := cfg.Compile(); err != nil {
		return nil, fmt.Errorf("sources file: %w", err)
	}
	return cfg, nil
}
