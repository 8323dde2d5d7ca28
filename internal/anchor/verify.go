package anchor

import (
	"context"
	"fmt"

	dErrors "fundwatch/pkg/domain-errors"
)

// Verify walks a record type's chain oldest-first and checks every link.
// A valid chain starts at the genesis hash and threads each anchor's
// prev_hash through its predecessor's current_hash.
func (s *Service) Verify(ctx context.Context, recordType string) (VerifyReport, error) {
	if recordType == "" {
		return VerifyReport{}, dErrors.New(dErrors.CodeBadRequest, "record_type is required")
	}

	chain, err := s.store.ListByType(ctx, recordType)
	if err != nil {
		return VerifyReport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load chain")
	}

	report := VerifyReport{
		RecordType: recordType,
		Anchors:    len(chain),
		Errors:     []string{},
	}

	prev := GenesisHash
	for i, a := range chain {
		if a.PrevHash != prev {
			report.Errors = append(report.Errors,
				fmt.Sprintf("anchor %d (record %s): prev_hash does not match predecessor", i, a.RecordID))
		}
		if a.RecordHash != a.CurrentHash {
			report.Errors = append(report.Errors,
				fmt.Sprintf("anchor %d (record %s): record_hash differs from current_hash", i, a.RecordID))
		}
		prev = a.CurrentHash
	}

	if len(chain) > 0 {
		report.TipHash = chain[len(chain)-1].CurrentHash
	}
	report.OK = len(report.Errors) == 0
	return report, nil
}
