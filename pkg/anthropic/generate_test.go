package anthropic

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerator_GenerateText(t *testing.T) {
	client := &MockClient{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req MessageRequest) bool {
		return req.Model == "claude-haiku-4-5-20251001" &&
			req.MaxTokens == 512 &&
			len(req.Messages) == 1 &&
			req.Messages[0].Content == "hello"
	})).Return(&MessageResponse{
		Content: []ContentBlock{{Type: "text", Text: "world"}},
	}, nil)

	gen := NewGenerator(client, "claude-haiku-4-5-20251001", 512, "test")
	out, err := gen.GenerateText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", out)
	client.AssertExpectations(t)
}

func TestGenerator_GenerateText_Error(t *testing.T) {
	client := &MockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("api unavailable"))

	gen := NewGenerator(client, "claude-haiku-4-5-20251001", 512, "test")
	_, err := gen.GenerateText(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate text")
}

func TestNewGenerator_DefaultsMaxTokens(t *testing.T) {
	client := &MockClient{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req MessageRequest) bool {
		return req.MaxTokens == 1024
	})).Return(&MessageResponse{}, nil)

	gen := NewGenerator(client, "claude-haiku-4-5-20251001", 0, "test")
	_, err := gen.GenerateText(context.Background(), "hi")
	require.NoError(t, err)
	client.AssertExpectations(t)
}
