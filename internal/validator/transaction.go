package validator

import (
	"bankoffice/internal/apperr"
	"bankoffice/internal/models"
)

const (
	ReasonDepositHasSource          = "deposit must not have a source account"
	ReasonDepositMissingDestination = "deposit requires a destination account"
	ReasonWithdrawalMissingSource   = "withdrawal requires a source account"
	ReasonWithdrawalHasDestination  = "withdrawal must not have a destination account"
	ReasonTransferMissingAccount    = "transfer requires both a source and a destination account"
	ReasonTransferSameAccount       = "transfer source and destination accounts must differ"
	ReasonPaymentMissingSource      = "payment requires a source account"
	ReasonPaymentHasDestination     = "payment must not have a destination account"
	ReasonUnsupportedType           = "unsupported transaction type"
)

// ValidateTransaction checks the source/destination shape required by the
// transaction type. A nil id means the reference is absent; ids are expected to
// be already resolved.
func ValidateTransaction(txType models.TransactionType, sourceID, destinationID *string) error {
	hasSource := sourceID != nil
	hasDestination := destinationID != nil

	switch txType {
	case models.TransactionDeposit:
		if hasSource {
			return violation(ReasonDepositHasSource)
		}
		if !hasDestination {
			return violation(ReasonDepositMissingDestination)
		}
	case models.TransactionWithdrawal:
		if !hasSource {
			return violation(ReasonWithdrawalMissingSource)
		}
		if hasDestination {
			return violation(ReasonWithdrawalHasDestination)
		}
	case models.TransactionTransfer:
		if !hasSource || !hasDestination {
			return violation(ReasonTransferMissingAccount)
		}
		if *sourceID == *destinationID {
			return violation(ReasonTransferSameAccount)
		}
	case models.TransactionPayment:
		if !hasSource {
			return violation(ReasonPaymentMissingSource)
		}
		if hasDestination {
			return violation(ReasonPaymentHasDestination)
		}
	default:
		return violation(ReasonUnsupportedType)
	}
	return nil
}

func violation(reason string) error {
	return &apperr.RuleViolationError{Reason: reason}
}
