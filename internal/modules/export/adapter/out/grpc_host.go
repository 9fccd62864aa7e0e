package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	exportrpc "agencycheck/internal/modules/export/adapter/out/rpc"
	"agencycheck/internal/modules/export/domain"
	exportout "agencycheck/internal/modules/export/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 10 * time.Second
)

type GRPCHost struct {
	verbose bool
}

// NewGRPCHost starts exporters on demand. Plugin framework logs go to
// stderr only when verbose is set.
func NewGRPCHost(verbose bool) exportout.Host {
	return &GRPCHost{verbose: verbose}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, wrapCallError(callCtx, manifest, "get metadata", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Formats: meta.Formats}, nil
}

func (h *GRPCHost) Render(ctx context.Context, manifest domain.Manifest, format string, reportJSON []byte, options map[string]string) (domain.Artifact, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Artifact{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.Render(callCtx, &exportrpc.RenderRequest{
		Format:     format,
		ReportJSON: string(reportJSON),
		Options:    options,
	})
	if err != nil {
		return domain.Artifact{}, wrapCallError(callCtx, manifest, "render", err)
	}
	return domain.Artifact{
		Format:    format,
		MediaType: response.MediaType,
		Extension: response.Extension,
		Content:   response.Content,
	}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (exportrpc.ReportExporterClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  exportrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          exportrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.pluginLogger(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start exporter %s: %w", manifest.Name, err)
	}
	raw, err := rpcClient.Dispense(exportrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense exporter %s: %w", manifest.Name, err)
	}
	typed, ok := raw.(exportrpc.ReportExporterClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("exporter rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) pluginLogger(name string) hclog.Logger {
	if !h.verbose {
		return hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
	}
	return hclog.New(&hclog.LoggerOptions{Name: "exporter." + name, Output: os.Stderr, Level: hclog.Debug})
}

func wrapCallError(ctx context.Context, manifest domain.Manifest, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s", domain.ErrExporterTimeout, manifest.Name, op)
	}
	return fmt.Errorf("%s via %s: %w", op, manifest.Name, err)
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
