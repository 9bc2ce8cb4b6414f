package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/waypointlabs/prizehunt/internal/utils"
)

// codeAlphabet excludes lookalike characters (0/O, 1/I/L) because partners
// read these codes over the counter.
const codeAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ23456789"

const codeGroups = 2
const codeGroupLen = 4

// CodeService issues opaque redemption codes from a crypto-random source.
type CodeService struct{}

// NewCodeService creates a new CodeService
func NewCodeService() *CodeService {
	return &CodeService{}
}

// IssueCode returns a code like "K7MR-3XWP".
func (s *CodeService) IssueCode(ctx context.Context) (string, error) {
	var b strings.Builder
	for g := 0; g < codeGroups; g++ {
		if g > 0 {
			b.WriteByte('-')
		}
		for i := 0; i < codeGroupLen; i++ {
			n, err := utils.SecureRandomInt(0, len(codeAlphabet)-1)
			if err != nil {
				return "", fmt.Errorf("failed to generate redemption code: %w", err)
			}
			b.WriteByte(codeAlphabet[n])
		}
	}
	return b.String(), nil
}
