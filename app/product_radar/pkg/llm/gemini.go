package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// GeminiModel 基于 genai SDK 的对话模型
type GeminiModel struct {
	client *genai.Client
	model  string
}

var _ ChatModel = (*GeminiModel)(nil)

// NewGeminiModel 创建 Gemini 对话模型
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client failed: %w", err)
	}
	return &GeminiModel{client: client, model: modelName}, nil
}

// Generate implements ChatModel
func (g *GeminiModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	contents, genCfg := toGenai(input)

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, genCfg)
	if err != nil {
		return nil, err
	}
	return &schema.Message{Role: schema.Assistant, Content: result.Text()}, nil
}

// toGenai system 消息合并为 SystemInstruction，其余按角色转换
func toGenai(input []*schema.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	var system []*genai.Part
	var contents []*genai.Content
	for _, m := range input {
		switch m.Role {
		case schema.System:
			system = append(system, &genai.Part{Text: m.Content})
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	genCfg := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		genCfg.SystemInstruction = &genai.Content{Parts: system}
	}
	return contents, genCfg
}
