package nav

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sanonone/kartograph/pkg/core"
	"github.com/sanonone/kartograph/pkg/core/distance"
)

// LoadOptions reads a yaml options file and overlays it onto the defaults:
// thresholds absent from the file keep their DefaultOptions values.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read options %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse options %s: %w", path, err)
	}
	return opts, nil
}

// GraphFile is the yaml schema for a pre-loaded graph. It is a boundary
// format for the daemon and tests, not a persistence layer: embeddings and
// clusters are produced elsewhere.
type GraphFile struct {
	// Precision selects the resident embedding representation. "float16"
	// quantizes on load; anything else keeps float32.
	Precision string `yaml:"precision"`

	Keywords []struct {
		ID          string    `yaml:"id"`
		Label       string    `yaml:"label"`
		CommunityID string    `yaml:"community_id"`
		Embedding   []float32 `yaml:"embedding"`
	} `yaml:"keywords"`

	Contents []struct {
		ID        string   `yaml:"id"`
		Content   string   `yaml:"content"`
		ParentIDs []string `yaml:"parent_ids"`
	} `yaml:"contents"`

	Edges []core.SimilarityEdge `yaml:"edges"`
}

// LoadGraph reads a yaml graph file into a core.Graph.
func LoadGraph(path string) (*core.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", path, err)
	}
	var gf GraphFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("parse graph %s: %w", path, err)
	}

	quantize := gf.Precision == string(distance.Float16)
	keywords := make([]*core.KeywordNode, 0, len(gf.Keywords))
	for _, k := range gf.Keywords {
		kw := &core.KeywordNode{ID: k.ID, Label: k.Label, CommunityID: k.CommunityID}
		if len(k.Embedding) > 0 {
			if quantize {
				kw.EmbeddingF16 = distance.Quantize(k.Embedding)
			} else {
				kw.EmbeddingF32 = k.Embedding
			}
		}
		keywords = append(keywords, kw)
	}
	contents := make([]*core.ContentNode, 0, len(gf.Contents))
	for _, c := range gf.Contents {
		contents = append(contents, &core.ContentNode{ID: c.ID, Content: c.Content, ParentIDs: c.ParentIDs})
	}
	return core.NewGraph(keywords, contents, gf.Edges)
}
