package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joeshaw/envdecode"

	"github.com/ByLCY/textfill/dsl"
	"github.com/ByLCY/textfill/fill"
	"github.com/ByLCY/textfill/layout"
	"github.com/ByLCY/textfill/renderer"
	canvasrenderer "github.com/ByLCY/textfill/renderer/canvas"
	"github.com/ByLCY/textfill/renderer/preview"
	"github.com/ByLCY/textfill/renderer/xfont"
)

// Config 是命令行参数的默认值，可由 TEXTFILL_* 环境变量覆盖。
type Config struct {
	Input   string `env:"TEXTFILL_IN,default=examples/demo.fit"`
	Output  string `env:"TEXTFILL_OUT,default=output/demo.pdf"`
	PNG     string `env:"TEXTFILL_PNG"`
	Debug   string `env:"TEXTFILL_DEBUG"`
	Schema  string `env:"TEXTFILL_SCHEMA"`
	Data    string `env:"TEXTFILL_DATA"`
	Oracle  string `env:"TEXTFILL_ORACLE,default=canvas"`
	Outline bool   `env:"TEXTFILL_OUTLINE"`
	Watch   bool   `env:"TEXTFILL_WATCH"`
	Verbose bool   `env:"TEXTFILL_VERBOSE"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("读取环境变量失败: %w", err)
	}
	return cfg, nil
}

func parseFlags(args []string, cfg Config) (Config, error) {
	fs := flag.NewFlagSet("textfill", flag.ContinueOnError)
	fs.StringVar(&cfg.Input, "in", cfg.Input, "DSL 文件路径")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "PDF 输出路径，留空则不输出 PDF")
	fs.StringVar(&cfg.PNG, "png", cfg.PNG, "首页 PNG 预览输出路径")
	fs.StringVar(&cfg.Debug, "debug", cfg.Debug, "布局与适配结果的调试 JSON 输出路径")
	fs.StringVar(&cfg.Schema, "schema", cfg.Schema, "调试 JSON 的 JSON Schema 输出路径")
	fs.StringVar(&cfg.Data, "data", cfg.Data, "绑定到 DSL 的 JSON 数据，@path 表示从文件读取")
	fs.StringVar(&cfg.Oracle, "oracle", cfg.Oracle, "适配时使用的排版后端：canvas 或 xfont")
	fs.BoolVar(&cfg.Outline, "outline", cfg.Outline, "按适配结果给容器描边（绿色成功，红色溢出）")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "DSL 文件变化时重新生成")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "输出适配过程的调试日志")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	switch cfg.Oracle {
	case "canvas", "xfont":
	default:
		return cfg, fmt.Errorf("未知的排版后端：%s", cfg.Oracle)
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	cfg, err = parseFlags(os.Args[1:], cfg)
	if err != nil {
		log.Fatal(err)
	}
	logger := newLogger(os.Stderr, cfg.Verbose)
	fill.SetLogger(logger)

	if cfg.Schema != "" {
		if err := layout.WriteDebugSchema(cfg.Schema); err != nil {
			log.Fatalf("输出 JSON Schema 失败: %v", err)
		}
	}

	if err := run(cfg, logger); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	if cfg.Output != "" {
		fmt.Printf("已生成 PDF：%s\n", cfg.Output)
	}

	if cfg.Watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger.Info("watching", slog.String("file", cfg.Input))
		if err := watch(ctx, cfg.Input, logger, func() error { return run(cfg, logger) }); err != nil {
			log.Fatalf("监听失败: %v", err)
		}
	}
}

// run 串联解析、适配、布局与渲染。
func run(cfg Config, logger *slog.Logger) error {
	data, err := loadData(cfg.Data)
	if err != nil {
		return err
	}
	doc, err := dsl.ParseFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	baseDir := filepath.Dir(cfg.Input)
	pdfRenderer := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: baseDir, Outline: cfg.Outline})
	faces := xfont.New(baseDir)
	var ts layout.Typesetter = pdfRenderer
	if cfg.Oracle == "xfont" {
		ts = faces
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{Typesetter: ts, Debug: cfg.Verbose})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	for _, fit := range result.Fits {
		attrs := []any{
			slog.String("box", fit.Box),
			slog.Bool("succeeded", fit.Succeeded),
			slog.Int("font-size", fit.FontSizePx),
		}
		if fit.Error != "" {
			attrs = append(attrs, slog.String("error", fit.Error))
		}
		logger.Info("fit", attrs...)
	}

	if cfg.Debug != "" {
		if err := writeFile(cfg.Debug, func(path string) error { return layout.WriteDebugJSON(result, path) }); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	outputs := []struct {
		kind string
		path string
		r    renderer.Renderer
	}{
		{"PDF", cfg.Output, pdfRenderer},
		{"PNG", cfg.PNG, preview.New(preview.Options{Outline: cfg.Outline}, faces)},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		data, err := out.r.Render(result)
		if err != nil {
			return fmt.Errorf("渲染 %s 失败: %w", out.kind, err)
		}
		if err := writeFile(out.path, bytesWriter(data)); err != nil {
			return fmt.Errorf("写入 %s 文件失败: %w", out.kind, err)
		}
		logger.Debug("written", slog.String("kind", out.kind), slog.String("path", out.path))
	}
	return nil
}

// loadData 解析 -data；以 @ 开头时从文件读取 JSON。
func loadData(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	blob := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取 data 文件失败: %w", err)
		}
		blob = b
	}
	var data any
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func writeFile(path string, write func(path string) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return write(path)
}

func bytesWriter(b []byte) func(string) error {
	return func(path string) error { return os.WriteFile(path, b, 0o644) }
}
