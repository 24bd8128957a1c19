// Package llmtest 提供测试用的聊天模型替身。
package llmtest

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel 固定返回 Reply 的聊天模型，记录每次收到的消息
type ChatModel struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls [][]*schema.Message
}

var _ model.BaseChatModel = (*ChatModel)(nil)

// Generate 实现 model.BaseChatModel
func (m *ChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return schema.AssistantMessage(m.Reply, nil), nil
}

// Stream 实现 model.BaseChatModel
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// Calls 返回调用次数
func (m *ChatModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastPrompt 最近一次调用的用户消息内容
func (m *ChatModel) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	msgs := m.calls[len(m.calls)-1]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == schema.User {
			return msgs[i].Content
		}
	}
	return ""
}
