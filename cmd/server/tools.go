package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"esecure-analyze-go/internal/service"
	"esecure-analyze-go/internal/utils"
)

func printYAML(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// extractAction 抓取并打印抽取结果
func extractAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	rawURL := c.String("url")
	if rawURL == "" {
		rawURL = c.Args().First()
	}
	if rawURL == "" {
		return fmt.Errorf("url is required")
	}

	_, extractor := newTermsService(cfg, nil)
	doc, err := extractor.ExtractURL(c.Context, rawURL)
	if err != nil {
		return fmt.Errorf("extract %s: %w", rawURL, err)
	}

	text := utils.Excerpt(doc.Text, 500)
	if c.Bool("full") {
		text = doc.Text
	}
	return printYAML(map[string]interface{}{
		"url":       doc.URL,
		"final_url": doc.FinalURL,
		"title":     doc.Title,
		"site_name": doc.SiteName,
		"selector":  doc.Selector,
		"chars":     utils.RuneLen(doc.Text),
		"text":      text,
	})
}

// scoreAction 解析模型回复中的分数
func scoreAction(c *cli.Context) error {
	var r io.Reader = os.Stdin
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	reply, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read reply: %w", err)
	}

	score := service.ParseScore(string(reply))
	if score == nil {
		fmt.Println("null")
		return nil
	}
	fmt.Println(*score)
	return nil
}

// analyzeAction 不经过HTTP直接执行一次分析
func analyzeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	text := c.String("text")
	if path := c.String("file"); path != "" && text == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text = string(data)
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	resultCache, closeCache := openCache(ctx, cfg)
	defer closeCache()

	svc, _ := newTermsService(cfg, resultCache)
	result, err := svc.Analyze(ctx, service.AnalyzeInput{Text: text, URL: c.String("url")})
	if err != nil {
		return err
	}

	out := map[string]interface{}{
		"score":    result.Score,
		"feedback": result.Feedback,
		"cached":   result.Cached,
	}
	if result.Language != "" {
		out["language"] = result.Language
	}
	if result.Source != nil {
		out["source"] = result.Source
	}
	return printYAML(out)
}
