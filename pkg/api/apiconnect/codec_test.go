package apiconnect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/pkg/api"
)

func TestCodec(t *testing.T) {
	c := Codec()
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&api.SettleDebtRequest{EventId: "ABCDE", GiverId: "b", ReceiverId: "a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"eventId":"ABCDE","giverId":"b","receiverId":"a"}`, string(data))

	var req api.AddExpenseRequest
	require.NoError(t, c.Unmarshal([]byte(`{"eventId":"ABCDE","amount":"12.50","participantIds":["a","b"]}`), &req))
	assert.Equal(t, "12.50", req.Amount)
	assert.Equal(t, []string{"a", "b"}, req.ParticipantIds)
}
