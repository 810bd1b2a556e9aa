// Package policy loads the company policy document that constrains allowed
// reply content. The document is read once per run and passed through to the
// text generator unmodified; template pools are checked against the banned
// phrases at construction.
package policy

import (
	"fmt"
	"os"
	"strings"
)

// Document is the company policy in effect for one run.
type Document struct {
	Text string
}

// bannedPhrases are reply fragments that promise refunds or compensation.
// Hard external business constraint: replies must route such cases to the
// marketplace or to direct messages instead.
var bannedPhrases = []string{
	"возврат средств",
	"вернём деньги",
	"вернем деньги",
	"компенсаци",
	"refund",
	"compensation",
	"money back",
}

// Load reads the policy document from path. A missing document is allowed
// and yields an empty policy: the banned-phrase constraint still applies.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("reading policy document: %w", err)
	}
	return &Document{Text: string(data)}, nil
}

// CheckCompliance reports the first banned phrase found in text, if any.
func CheckCompliance(text string) error {
	lower := strings.ToLower(text)
	for _, phrase := range bannedPhrases {
		if strings.Contains(lower, phrase) {
			return fmt.Errorf("reply text contains banned phrase %q", phrase)
		}
	}
	return nil
}
