package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

var md = goldmark.New()

// PageData 报告页面数据
type PageData struct {
	Topic       string
	GeneratedAt string
	Result      *model.ResearchResult
}

const htmlTpl = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>产品雷达 | {{ .Topic }}</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 40px; padding: 20px 0; }
        h1 { font-size: 2.2rem; margin: 0 0 10px 0; }
        .meta { color: var(--text-secondary); }
        .keywords { margin-top: 12px; }
        .tag { display: inline-block; background: #eff6ff; color: var(--primary-color); padding: 2px 10px; border-radius: 12px; margin: 2px; font-size: 0.85rem; }
        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 30px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.05);
            border: 1px solid var(--border-color);
        }
        .card h2 { margin-top: 0; }
        .product { padding: 12px 0; border-bottom: 1px dashed var(--border-color); }
        .product:last-child { border-bottom: none; }
        .product a { color: var(--primary-color); text-decoration: none; font-weight: bold; }
        .product .votes { float: right; color: #991b1b; font-weight: bold; }
        .product .tagline { color: var(--text-secondary); }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>📡 产品雷达：{{ .Topic }}</h1>
            <div class="meta">{{ .GeneratedAt }} • {{ len .Result.Keywords }} 个关键词 • {{ len .Result.Products }} 个产品</div>
            <div class="keywords">{{ range .Result.Keywords }}<span class="tag">{{ . }}</span>{{ end }}</div>
        </header>

        <div class="card">
            <h2>🧠 分析报告</h2>
            {{ markdown .Result.Content }}
        </div>

        <div class="card">
            <h2>🔗 相关产品</h2>
            {{ range .Result.Products }}
            <div class="product">
                <span class="votes">▲ {{ .VotesCount }}</span>
                <a href="{{ .URL }}" target="_blank">{{ .Name }}</a>
                <div class="tagline">{{ .Tagline }}</div>
                {{ if .Topics }}<div>{{ range .Topics }}<span class="tag">{{ . }}</span>{{ end }}</div>{{ end }}
            </div>
            {{ end }}
        </div>
    </div>
</body>
</html>
`

var pageTpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"markdown": renderMarkdown,
}).Parse(htmlTpl))

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

// WriteHTML 渲染报告页面
func WriteHTML(w io.Writer, topic string, res *model.ResearchResult, now time.Time) error {
	if res == nil {
		return fmt.Errorf("nil result")
	}
	return pageTpl.Execute(w, PageData{
		Topic:       topic,
		GeneratedAt: now.Format(time.DateTime),
		Result:      res,
	})
}

// WriteFile 渲染报告并写入文件，目录不存在时自动创建
func WriteFile(path, topic string, res *model.ResearchResult, now time.Time) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir failed: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteHTML(f, topic, res, now)
}
