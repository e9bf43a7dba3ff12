package loader

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/lvyanru/actctl/internal/cli/types"
	"github.com/lvyanru/actctl/internal/domain"
)

// KindActivity is the only kind an activity file may declare
const KindActivity = "Activity"

// ActivityFile represents an activity definition loaded from a YAML file
type ActivityFile struct {
	// Kind must be "Activity"
	Kind string `json:"kind"`
	// Spec contains the activity fields
	Spec ActivitySpec `json:"spec"`
}

// ActivitySpec mirrors the admin create form
type ActivitySpec struct {
	Title             string `json:"title"`
	BgImage           string `json:"bgImage,omitempty"`
	StartTime         string `json:"startTime,omitempty"`
	EndTime           string `json:"endTime,omitempty"`
	DetailTopImage    string `json:"detailTopImage,omitempty"`
	DetailBottomImage string `json:"detailBottomImage,omitempty"`
}

// LoadFromFile loads an activity definition from a YAML (or JSON) file
func LoadFromFile(path string) (*ActivityFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse parses an activity definition
func Parse(data []byte) (*ActivityFile, error) {
	var file ActivityFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if file.Kind == "" {
		return nil, fmt.Errorf("'kind' field is required")
	}
	if file.Kind != KindActivity {
		return nil, fmt.Errorf("invalid kind '%s', must be '%s'", file.Kind, KindActivity)
	}

	return &file, nil
}

// ToCreateRequest converts the file to a create request. Fields are trimmed;
// blank images are left blank so the console applies the stock defaults.
func (f *ActivityFile) ToCreateRequest() (*types.CreateActivityRequest, error) {
	title := strings.TrimSpace(f.Spec.Title)
	if title == "" {
		return nil, domain.NewValidationError("spec.title is required")
	}

	return &types.CreateActivityRequest{
		Title:             title,
		BgImage:           strings.TrimSpace(f.Spec.BgImage),
		StartTime:         strings.TrimSpace(f.Spec.StartTime),
		EndTime:           strings.TrimSpace(f.Spec.EndTime),
		DetailTopImage:    strings.TrimSpace(f.Spec.DetailTopImage),
		DetailBottomImage: strings.TrimSpace(f.Spec.DetailBottomImage),
	}, nil
}
