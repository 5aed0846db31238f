// pkg/ai/mock_client.go

package ai

import "context"

type mockClient struct{}

// NewMock returns a client for wiring without GigaChat credentials.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) Complete(_ context.Context, r Request) (string, error) {
	if r.External {
		return "Это вопрос не про VK Education, точного ответа у меня нет.", nil
	}
	if r.Context == "" {
		return "Пока не могу найти информацию по этому вопросу.", nil
	}
	return "Ответ по материалам VK Education (mock).", nil
}
