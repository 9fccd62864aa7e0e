package out

import (
	"encoding/json"
	"fmt"

	"agencycheck/internal/modules/export/domain"
	exportout "agencycheck/internal/modules/export/port/out"
	progressdomain "agencycheck/internal/modules/progress/domain"
)

type JSONRenderer struct{}

func NewJSONRenderer() exportout.Renderer {
	return JSONRenderer{}
}

func (JSONRenderer) Format() string { return domain.FormatJSON }

func (JSONRenderer) Render(report progressdomain.Report) (domain.Artifact, error) {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("encode report: %w", err)
	}
	return domain.Artifact{
		Format:    domain.FormatJSON,
		MediaType: "application/json",
		Extension: "json",
		Content:   append(raw, '\n'),
	}, nil
}
