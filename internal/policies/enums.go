package policies

// RefundType classifies why a refund is requested. Each type carries its own
// policy set.
type RefundType string

const (
	RefundTypeCompanyCancellation RefundType = "COMPANY_CANCELLATION"
	RefundTypeAutoCancellation    RefundType = "AUTO_CANCELLATION"
	RefundTypeUserCancellation    RefundType = "USER_CANCELLATION"
)

func (t RefundType) IsValid() bool {
	switch t {
	case RefundTypeCompanyCancellation, RefundTypeAutoCancellation, RefundTypeUserCancellation:
		return true
	}
	return false
}

func (t RefundType) String() string {
	return string(t)
}

// Code returns the stable integer code used at serialization boundaries with
// external systems. Storage and API payloads use the string form.
func (t RefundType) Code() int {
	switch t {
	case RefundTypeCompanyCancellation:
		return 1
	case RefundTypeAutoCancellation:
		return 2
	case RefundTypeUserCancellation:
		return 3
	}
	return 0
}

// RefundTypeFromCode maps a stable integer code back to a RefundType.
func RefundTypeFromCode(code int) (RefundType, bool) {
	switch code {
	case 1:
		return RefundTypeCompanyCancellation, true
	case 2:
		return RefundTypeAutoCancellation, true
	case 3:
		return RefundTypeUserCancellation, true
	}
	return "", false
}
