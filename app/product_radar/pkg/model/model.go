package model

import "time"

// Product 产品目录中的单个产品，所有字段共同决定去重时的身份
type Product struct {
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Website     string    `json:"website,omitempty"`
	VotesCount  int       `json:"votesCount"`
	CreatedAt   time.Time `json:"createdAt"`
	Topics      []string  `json:"topics"`
}

// ResearchResult 一次调研运行的完整结果
type ResearchResult struct {
	Content  string    `json:"content"`  // 分析报告正文 (Markdown)
	Keywords []string  `json:"keywords"` // 生成的搜索关键词
	Products []Product `json:"products"` // 去重后的产品列表
}
