package decode

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"swapextract/internal/model"
)

const topicHexLen = 64

// NormalizeTopics turns topics of any known encoding into a list of
// 0x-prefixed topic strings. It never fails: unrecognized text is kept as a
// single element and unknown shapes yield an empty list.
func NormalizeTopics(raw model.RawTopics) []string {
	switch raw.Kind {
	case model.TopicsList:
		if raw.List == nil {
			return []string{}
		}
		return raw.List
	case model.TopicsText:
		return normalizeTopicText(raw.Text)
	default:
		return []string{}
	}
}

func normalizeTopicText(text string) []string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return model.JSONElementsToStrings(items)
		}
	}

	// Concatenated 32-byte topics: 0x{topic0}{topic1}...
	if strings.HasPrefix(s, "0x") {
		body := s[2:]
		if len(body)%topicHexLen == 0 {
			chunks := make([]string, 0, len(body)/topicHexLen)
			for i := 0; i < len(body); i += topicHexLen {
				chunks = append(chunks, "0x"+body[i:i+topicHexLen])
			}
			return chunks
		}
	}

	// Heuristic fallback, not a verified decode.
	return []string{s}
}

// TopicToAddress recovers an indexed address from its 32-byte topic. The
// address is the right-aligned 20 bytes. It returns nil when the topic is too
// short to hold an address.
func TopicToAddress(topic string) *string {
	if topic == "" {
		return nil
	}
	clean := strip0x(topic)
	if len(clean) < 2*common.AddressLength {
		return nil
	}

	addrHex := "0x" + clean[len(clean)-2*common.AddressLength:]
	if !common.IsHexAddress(addrHex) {
		lower := strings.ToLower(addrHex)
		return &lower
	}
	checksummed := common.HexToAddress(addrHex).Hex()
	return &checksummed
}

func strip0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
