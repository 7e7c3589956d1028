package ai

import (
	"github.com/pkoukk/tiktoken-go"

	"promptquest/internal/domain/ports/adapter"
)

func countWithEncoding(encoding string, messages []adapter.Message) (int, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, m := range messages {
		total += len(enc.Encode(m.Content, nil, nil))
	}
	return total, nil
}
