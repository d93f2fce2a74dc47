package tx

import "fmt"

// DecodeErrorCode classifies a malformed byte buffer. Every hostile input
// maps onto one of these; decode never panics.
type DecodeErrorCode string

const (
	// UnexpectedEof: the buffer ends before a required field.
	UnexpectedEof DecodeErrorCode = "UNEXPECTED_EOF"
	// InvalidVariantTag: an unrecognized transaction/input/output tag.
	InvalidVariantTag DecodeErrorCode = "INVALID_VARIANT_TAG"
	// LengthOverflow: a declared length exceeds the remaining buffer or a
	// hard wire cap.
	LengthOverflow DecodeErrorCode = "LENGTH_OVERFLOW"
	// TrailingBytes: the buffer continues past one complete transaction.
	TrailingBytes DecodeErrorCode = "TRAILING_BYTES"
	// NonCanonical: the bytes decode to a value whose re-encoding would
	// differ (non-zero padding, oversized scalar, forbidden field mix).
	NonCanonical DecodeErrorCode = "NON_CANONICAL"
	// BufferTooShort: a zero-copy accessor ran out of buffer, or the field
	// does not exist for the buffer's variant.
	BufferTooShort DecodeErrorCode = "BUFFER_TOO_SHORT"
)

// DecodeError is returned for malformed wire bytes.
type DecodeError struct {
	Code DecodeErrorCode
	Msg  string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func decodeErr(code DecodeErrorCode, msg string) error {
	return &DecodeError{Code: code, Msg: msg}
}

func decodeErrf(code DecodeErrorCode, format string, args ...any) error {
	return &DecodeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// ViolationCode classifies a consensus-rule violation found by Check. The
// acceptance/rejection outcome is consensus-sensitive; the message text is
// not.
type ViolationCode string

const (
	ErrInputsMax              ViolationCode = "TX_ERR_INPUTS_MAX"
	ErrOutputsMax             ViolationCode = "TX_ERR_OUTPUTS_MAX"
	ErrWitnessesMax           ViolationCode = "TX_ERR_WITNESSES_MAX"
	ErrSizeMax                ViolationCode = "TX_ERR_SIZE_MAX"
	ErrGasLimitMax            ViolationCode = "TX_ERR_GAS_LIMIT_MAX"
	ErrMaturity               ViolationCode = "TX_ERR_MATURITY"
	ErrScriptLength           ViolationCode = "TX_ERR_SCRIPT_LENGTH"
	ErrScriptDataLength       ViolationCode = "TX_ERR_SCRIPT_DATA_LENGTH"
	ErrPredicateEmpty         ViolationCode = "TX_ERR_PREDICATE_EMPTY"
	ErrPredicateLength        ViolationCode = "TX_ERR_PREDICATE_LENGTH"
	ErrPredicateDataLength    ViolationCode = "TX_ERR_PREDICATE_DATA_LENGTH"
	ErrPredicateOwner         ViolationCode = "TX_ERR_PREDICATE_OWNER"
	ErrMessageDataLength      ViolationCode = "TX_ERR_MESSAGE_DATA_LENGTH"
	ErrWitnessIndexBounds     ViolationCode = "TX_ERR_WITNESS_INDEX_BOUNDS"
	ErrDuplicateUtxoID        ViolationCode = "TX_ERR_DUPLICATE_UTXO_ID"
	ErrDuplicateMessageID     ViolationCode = "TX_ERR_DUPLICATE_MESSAGE_ID"
	ErrDuplicateContractID    ViolationCode = "TX_ERR_DUPLICATE_CONTRACT_ID"
	ErrArithmeticOverflow     ViolationCode = "TX_ERR_ARITHMETIC_OVERFLOW"
	ErrInsufficientFee        ViolationCode = "TX_ERR_INSUFFICIENT_FEE"
	ErrInsufficientInput      ViolationCode = "TX_ERR_INSUFFICIENT_INPUT"
	ErrOutputAssetNotFound    ViolationCode = "TX_ERR_OUTPUT_ASSET_NOT_FOUND"
	ErrChangeAssetDuplicated  ViolationCode = "TX_ERR_CHANGE_ASSET_DUPLICATED"
	ErrContractPairing        ViolationCode = "TX_ERR_CONTRACT_PAIRING"
	ErrScriptOutputContract   ViolationCode = "TX_ERR_SCRIPT_OUTPUT_CONTRACT_CREATED"
	ErrCreateBytecodeWitness  ViolationCode = "TX_ERR_CREATE_BYTECODE_WITNESS"
	ErrCreateBytecodeLength   ViolationCode = "TX_ERR_CREATE_BYTECODE_LENGTH"
	ErrCreateInputContract    ViolationCode = "TX_ERR_CREATE_INPUT_CONTRACT"
	ErrCreateOutputContract   ViolationCode = "TX_ERR_CREATE_OUTPUT_CONTRACT"
	ErrCreateOutputVariable   ViolationCode = "TX_ERR_CREATE_OUTPUT_VARIABLE"
	ErrCreateChangeNotBase    ViolationCode = "TX_ERR_CREATE_CHANGE_NOT_BASE_ASSET"
	ErrCreateContractCreated  ViolationCode = "TX_ERR_CREATE_CONTRACT_CREATED"
	ErrCreateStorageSlotMax   ViolationCode = "TX_ERR_CREATE_STORAGE_SLOT_MAX"
	ErrCreateStorageSlotOrder ViolationCode = "TX_ERR_CREATE_STORAGE_SLOT_ORDER"
	ErrCreateContractID       ViolationCode = "TX_ERR_CREATE_CONTRACT_ID"
	ErrMintOutputNotCoin      ViolationCode = "TX_ERR_MINT_OUTPUT_NOT_COIN"
	ErrMintAssetDuplicated    ViolationCode = "TX_ERR_MINT_ASSET_DUPLICATED"
	ErrInvalidSignature       ViolationCode = "TX_ERR_INVALID_SIGNATURE"
)

// ValidationError reports the first consensus violation found, with the
// field path that triggered it.
type ValidationError struct {
	Code  ViolationCode
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	out := string(e.Code)
	if e.Field != "" {
		out += " at " + e.Field
	}
	if e.Msg != "" {
		out += ": " + e.Msg
	}
	return out
}

func violation(code ViolationCode, field string, format string, args ...any) error {
	return &ValidationError{Code: code, Field: field, Msg: fmt.Sprintf(format, args...)}
}
