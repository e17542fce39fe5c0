package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		cb      *tele.Callback
		key     string
		payload string
	}{
		{name: "nil", cb: nil},
		{name: "raw token", cb: &tele.Callback{Data: "week_1.1.2024 - 7.1.2024"}, key: "week_1.1.2024 - 7.1.2024"},
		{name: "raw token keeps pipes", cb: &tele.Callback{Data: "all|x"}, key: "all|x"},
		{name: "unique encoding", cb: &tele.Callback{Data: "\freport|all"}, key: "report", payload: "all"},
		{name: "unique set by telebot", cb: &tele.Callback{Unique: "report", Data: "week"}, key: "report", payload: "week"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.payload, payload)
		})
	}
}
