package transpiler

import (
	"fmt"

	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
)

// FormatSummary renders the counts of a run.
func FormatSummary(s domain.Summary) string {
	msg := fmt.Sprintf("%d transpiled, %d fresh, %d failed", s.Transpiled, s.Fresh, s.Failed)
	if s.Deleted > 0 {
		msg += fmt.Sprintf(", %d deleted", s.Deleted)
	}
	return msg
}

func logSummary(logger ports.Logger, s domain.Summary) {
	logger.Info(FormatSummary(s))
}
