package chat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "hola"},
		{Role: RoleAssistant, Content: "¡Hola! ¿En qué te ayudo?"},
	}

	msgs := BuildMessages("Actividad 4: Pendiente", history, "¿qué es la pendiente?")
	require.Len(t, msgs, 4)

	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.True(t, strings.HasSuffix(msgs[0].Content, "Contexto actual: Actividad 4: Pendiente"))
	assert.Equal(t, history[0], msgs[1])
	assert.Equal(t, history[1], msgs[2])
	assert.Equal(t, Message{Role: RoleUser, Content: "¿qué es la pendiente?"}, msgs[3])
}

func TestBuildMessages_emptyHistory(t *testing.T) {
	msgs := BuildMessages("", nil, "hola")
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, RoleUser, msgs[1].Role)
}

func TestBuildMessages_historyWindow(t *testing.T) {
	history := make([]Message, 10)
	for i := range history {
		history[i] = Message{Role: RoleUser, Content: fmt.Sprintf("msg %d", i)}
	}

	msgs := BuildMessages("", history, "latest")
	require.Len(t, msgs, historyWindow+2)

	// only the tail of the history survives
	assert.Equal(t, "msg 6", msgs[1].Content)
	assert.Equal(t, "msg 9", msgs[4].Content)
	assert.Equal(t, "latest", msgs[5].Content)
}
