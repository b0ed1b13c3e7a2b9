package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docScanGuard/internal/detector/extract"
	"docScanGuard/internal/detector/indicator"
)

var (
	targetFile string
	rulesPath  string
	timeout    time.Duration
	maxChars   int
	verbose    bool
)

func main() {
	// 1. 参数解析
	flag.StringVar(&targetFile, "f", "", "要解析的单个文件 (.pdf / .docx / .txt)")
	flag.StringVar(&rulesPath, "r", "", "额外的规则文件或目录 (YAML)，覆盖同 ID 的内置规则")
	flag.DurationVar(&timeout, "t", 30*time.Second, "单文件解析超时")
	flag.IntVar(&maxChars, "n", 500, "最多打印的文本字符数，0 表示全部")
	flag.BoolVar(&verbose, "v", false, "显示每条规则的匹配情况")
	flag.Parse()

	if targetFile == "" && flag.NArg() > 0 {
		targetFile = flag.Arg(0)
	}
	if targetFile == "" {
		fmt.Println("用法: extract -f <file> [-r rules.yaml] [-t 30s] [-n 500] [-v]")
		os.Exit(2)
	}

	// 2. 选择解析器
	registry := extract.Default()
	ex, err := registry.Lookup(targetFile)
	if err != nil {
		fmt.Printf("Fatal: %v (支持: %s)\n", err, strings.Join(registry.Extensions(), ", "))
		os.Exit(1)
	}

	// 3. 加载规则
	rules := indicator.DefaultRules()
	if rulesPath != "" {
		custom, err := indicator.Load(rulesPath)
		if err != nil {
			fmt.Printf("Fatal: 加载规则失败: %v\n", err)
			os.Exit(1)
		}
		rules = indicator.Merge(rules, custom)
	}
	classifier, err := indicator.NewClassifier(rules)
	if err != nil {
		fmt.Printf("Fatal: 编译规则失败: %v\n", err)
		os.Exit(1)
	}

	// 4. 解析 + 分类
	start := time.Now()
	text, extractErr := extract.Run(context.Background(), ex, targetFile, timeout)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------")
	fmt.Printf("文件:   %s\n", filepath.Base(targetFile))
	fmt.Printf("格式:   %s\n", ex.Format())
	fmt.Printf("耗时:   %v\n", elapsed.Round(time.Millisecond))
	if extractErr != nil {
		fmt.Printf("解析失败: %v\n", extractErr)
	}
	fmt.Printf("文本长度: %d\n", len([]rune(text)))
	fmt.Println("------------------------------------------------")
	fmt.Println(preview(text, maxChars))
	fmt.Println("------------------------------------------------")

	result := classifier.Classify(text)
	fmt.Printf("状态:   %s\n", result.Status)
	fmt.Printf("风险:   %s\n", result.Risk)
	if len(result.MatchedIndicators) > 0 {
		fmt.Printf("命中:   %s\n", strings.Join(result.MatchedIndicators, ", "))
	}

	if verbose {
		matched := make(map[string]bool, len(result.MatchedIndicators))
		for _, id := range result.MatchedIndicators {
			matched[id] = true
		}
		fmt.Println("------------------------------------------------")
		for _, r := range rules {
			state := "  "
			switch {
			case !r.IsEnabled():
				state = "--"
			case matched[r.ID]:
				state = "✔ "
			}
			fmt.Printf("[%s] %-16s %-20s %s\n", state, r.ID, r.Category, r.Pattern)
		}
	}
}

func preview(text string, n int) string {
	r := []rune(text)
	if n <= 0 || len(r) <= n {
		return text
	}
	return string(r[:n]) + fmt.Sprintf("... (+%d)", len(r)-n)
}
