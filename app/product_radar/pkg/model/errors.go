package model

import "errors"

// 调研流程的错误分类，使用 errors.Is 判断
var (
	// ErrConfig 缺少必要配置，仅在启动时出现
	ErrConfig = errors.New("config error")
	// ErrInvalidTopic 主题为空
	ErrInvalidTopic = errors.New("topic is required")
	// ErrGeneration 关键词生成失败
	ErrGeneration = errors.New("keyword generation failed")
	// ErrAuth 获取产品目录访问凭证失败
	ErrAuth = errors.New("directory auth failed")
	// ErrSearch 单个关键词的搜索失败，不会传递给调用方
	ErrSearch = errors.New("directory search failed")
	// ErrNoResults 聚合后没有任何产品
	ErrNoResults = errors.New("no products found")
	// ErrSynthesis 报告生成失败
	ErrSynthesis = errors.New("report synthesis failed")
)
