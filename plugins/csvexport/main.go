// Command csvexport is the reference report exporter. It serves the csv
// format over the exporter plugin protocol.
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	exportrpc "agencycheck/internal/modules/export/adapter/out/rpc"
	progressdomain "agencycheck/internal/modules/progress/domain"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *exportrpc.Empty) (*exportrpc.Metadata, error) {
	return &exportrpc.Metadata{Name: "csvexport", Version: "1.0.0", Formats: []string{"csv"}}, nil
}

func (s *server) Render(_ context.Context, in *exportrpc.RenderRequest) (*exportrpc.RenderResponse, error) {
	if in.Format != "csv" {
		return nil, fmt.Errorf("unsupported format: %s", in.Format)
	}
	var report progressdomain.Report
	if err := json.Unmarshal([]byte(in.ReportJSON), &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	switch in.Options["delimiter"] {
	case ";":
		w.Comma = ';'
	case "tab":
		w.Comma = '\t'
	}
	_ = w.Write([]string{"subject", "competency", "theme", "count", "improved", "hours", "credit", "state", "tags"})
	for _, c := range report.PerCompetency {
		_ = w.Write([]string{
			report.SubjectID,
			c.CompetencyID,
			c.ThemeID,
			strconv.Itoa(c.Count),
			strconv.Itoa(c.Improved),
			strconv.FormatFloat(c.Hours, 'f', -1, 64),
			strconv.FormatFloat(c.Credit, 'f', -1, 64),
			string(c.State),
			strings.Join(c.ChangeTags, " "),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return &exportrpc.RenderResponse{Content: buf.Bytes(), MediaType: "text/csv; charset=utf-8", Extension: "csv"}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: exportrpc.HandshakeConfig,
		Plugins:         exportrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
