package tx

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// JSON interchange for tooling and logs. The canonical bytes remain the
// only consensus representation; this form is lossless but carries no
// canonicity guarantee of its own.

// hexBytes renders byte blobs as lowercase hex in JSON.
type hexBytes []byte

func (h hexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *hexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*h = nil
		return nil
	}
	*h = raw
	return nil
}

const (
	jsonTypeScript = "script"
	jsonTypeCreate = "create"
	jsonTypeMint   = "mint"

	jsonInputCoinSigned       = "coin_signed"
	jsonInputCoinPredicate    = "coin_predicate"
	jsonInputContract         = "contract"
	jsonInputMessageSigned    = "message_signed"
	jsonInputMessagePredicate = "message_predicate"

	jsonOutputCoin            = "coin"
	jsonOutputContract        = "contract"
	jsonOutputChange          = "change"
	jsonOutputVariable        = "variable"
	jsonOutputContractCreated = "contract_created"
)

type jsonUtxoID struct {
	TxID        TxID  `json:"tx_id"`
	OutputIndex uint8 `json:"output_index"`
}

type jsonTxPointer struct {
	BlockHeight uint32 `json:"block_height"`
	TxIndex     uint16 `json:"tx_index"`
}

type jsonStorageSlot struct {
	Key   Bytes32 `json:"key"`
	Value Bytes32 `json:"value"`
}

type jsonInput struct {
	Type string `json:"type"`

	UtxoID    *jsonUtxoID    `json:"utxo_id,omitempty"`
	Owner     *Address       `json:"owner,omitempty"`
	Amount    uint64         `json:"amount,omitempty"`
	AssetID   *AssetID       `json:"asset_id,omitempty"`
	TxPointer *jsonTxPointer `json:"tx_pointer,omitempty"`
	Maturity  uint64         `json:"maturity,omitempty"`

	WitnessIndex  uint8    `json:"witness_index,omitempty"`
	Predicate     hexBytes `json:"predicate,omitempty"`
	PredicateData hexBytes `json:"predicate_data,omitempty"`

	BalanceRoot *Bytes32    `json:"balance_root,omitempty"`
	StateRoot   *Bytes32    `json:"state_root,omitempty"`
	ContractID  *ContractID `json:"contract_id,omitempty"`

	MessageID *MessageID `json:"message_id,omitempty"`
	Sender    *Address   `json:"sender,omitempty"`
	Recipient *Address   `json:"recipient,omitempty"`
	Nonce     uint64     `json:"nonce,omitempty"`
	Data      hexBytes   `json:"data,omitempty"`
}

type jsonOutput struct {
	Type string `json:"type"`

	To      *Address `json:"to,omitempty"`
	Amount  uint64   `json:"amount,omitempty"`
	AssetID *AssetID `json:"asset_id,omitempty"`

	InputIndex  uint8    `json:"input_index,omitempty"`
	BalanceRoot *Bytes32 `json:"balance_root,omitempty"`
	StateRoot   *Bytes32 `json:"state_root,omitempty"`

	ContractID *ContractID `json:"contract_id,omitempty"`
}

type jsonTx struct {
	Type string `json:"type"`

	GasPrice uint64 `json:"gas_price,omitempty"`
	GasLimit uint64 `json:"gas_limit,omitempty"`
	Maturity uint64 `json:"maturity,omitempty"`

	ReceiptsRoot *Bytes32 `json:"receipts_root,omitempty"`
	Script       hexBytes `json:"script,omitempty"`
	ScriptData   hexBytes `json:"script_data,omitempty"`

	BytecodeLength       uint64            `json:"bytecode_length,omitempty"`
	BytecodeWitnessIndex uint8             `json:"bytecode_witness_index,omitempty"`
	Salt                 *Salt             `json:"salt,omitempty"`
	StorageSlots         []jsonStorageSlot `json:"storage_slots,omitempty"`

	TxPointer *jsonTxPointer `json:"tx_pointer,omitempty"`

	Inputs    []jsonInput  `json:"inputs,omitempty"`
	Outputs   []jsonOutput `json:"outputs,omitempty"`
	Witnesses []hexBytes   `json:"witnesses,omitempty"`
}

func utxoIDToJSON(u UtxoID) *jsonUtxoID {
	return &jsonUtxoID{TxID: u.TxID, OutputIndex: u.OutputIndex}
}

func pointerToJSON(p TxPointer) *jsonTxPointer {
	return &jsonTxPointer{BlockHeight: p.BlockHeight, TxIndex: p.TxIndex}
}

func inputToJSON(in Input) jsonInput {
	switch in := in.(type) {
	case *InputCoinSigned:
		owner, asset := in.Owner, in.AssetID
		return jsonInput{
			Type:         jsonInputCoinSigned,
			UtxoID:       utxoIDToJSON(in.UtxoID),
			Owner:        &owner,
			Amount:       in.Amount,
			AssetID:      &asset,
			TxPointer:    pointerToJSON(in.TxPointer),
			WitnessIndex: in.WitnessIndex,
			Maturity:     in.Maturity,
		}
	case *InputCoinPredicate:
		owner, asset := in.Owner, in.AssetID
		return jsonInput{
			Type:          jsonInputCoinPredicate,
			UtxoID:        utxoIDToJSON(in.UtxoID),
			Owner:         &owner,
			Amount:        in.Amount,
			AssetID:       &asset,
			TxPointer:     pointerToJSON(in.TxPointer),
			Maturity:      in.Maturity,
			Predicate:     hexBytes(in.Predicate),
			PredicateData: hexBytes(in.PredicateData),
		}
	case *InputContract:
		balance, state, contract := in.BalanceRoot, in.StateRoot, in.ContractID
		return jsonInput{
			Type:        jsonInputContract,
			UtxoID:      utxoIDToJSON(in.UtxoID),
			BalanceRoot: &balance,
			StateRoot:   &state,
			TxPointer:   pointerToJSON(in.TxPointer),
			ContractID:  &contract,
		}
	case *InputMessageSigned:
		id, sender, recipient := in.MessageID, in.Sender, in.Recipient
		return jsonInput{
			Type:         jsonInputMessageSigned,
			MessageID:    &id,
			Sender:       &sender,
			Recipient:    &recipient,
			Amount:       in.Amount,
			Nonce:        in.Nonce,
			WitnessIndex: in.WitnessIndex,
			Data:         hexBytes(in.Data),
		}
	case *InputMessagePredicate:
		id, sender, recipient := in.MessageID, in.Sender, in.Recipient
		return jsonInput{
			Type:          jsonInputMessagePredicate,
			MessageID:     &id,
			Sender:        &sender,
			Recipient:     &recipient,
			Amount:        in.Amount,
			Nonce:         in.Nonce,
			Data:          hexBytes(in.Data),
			Predicate:     hexBytes(in.Predicate),
			PredicateData: hexBytes(in.PredicateData),
		}
	default:
		panic("tx: unknown input variant")
	}
}

func outputToJSON(out Output) jsonOutput {
	switch out := out.(type) {
	case *OutputCoin:
		to, asset := out.To, out.AssetID
		return jsonOutput{Type: jsonOutputCoin, To: &to, Amount: out.Amount, AssetID: &asset}
	case *OutputContract:
		balance, state := out.BalanceRoot, out.StateRoot
		return jsonOutput{Type: jsonOutputContract, InputIndex: out.InputIndex, BalanceRoot: &balance, StateRoot: &state}
	case *OutputChange:
		to, asset := out.To, out.AssetID
		return jsonOutput{Type: jsonOutputChange, To: &to, Amount: out.Amount, AssetID: &asset}
	case *OutputVariable:
		to, asset := out.To, out.AssetID
		return jsonOutput{Type: jsonOutputVariable, To: &to, Amount: out.Amount, AssetID: &asset}
	case *OutputContractCreated:
		contract, state := out.ContractID, out.StateRoot
		return jsonOutput{Type: jsonOutputContractCreated, ContractID: &contract, StateRoot: &state}
	default:
		panic("tx: unknown output variant")
	}
}

// ToJSON renders t in the interchange form.
func ToJSON(t Transaction) ([]byte, error) {
	var dto jsonTx
	switch t := t.(type) {
	case *Script:
		root := t.ReceiptsRoot
		dto = jsonTx{
			Type:         jsonTypeScript,
			GasPrice:     t.GasPrice,
			GasLimit:     t.GasLimit,
			Maturity:     t.Maturity,
			ReceiptsRoot: &root,
			Script:       hexBytes(t.Script),
			ScriptData:   hexBytes(t.ScriptData),
		}
		fillCommonJSON(&dto, t.In, t.Out, t.Wit)
	case *Create:
		salt := t.Salt
		dto = jsonTx{
			Type:                 jsonTypeCreate,
			GasPrice:             t.GasPrice,
			GasLimit:             t.GasLimit,
			Maturity:             t.Maturity,
			BytecodeLength:       t.BytecodeLength,
			BytecodeWitnessIndex: t.BytecodeWitnessIndex,
			Salt:                 &salt,
		}
		for _, s := range t.StorageSlots {
			dto.StorageSlots = append(dto.StorageSlots, jsonStorageSlot{Key: s.Key, Value: s.Value})
		}
		fillCommonJSON(&dto, t.In, t.Out, t.Wit)
	case *Mint:
		dto = jsonTx{Type: jsonTypeMint, TxPointer: pointerToJSON(t.TxPointer)}
		fillCommonJSON(&dto, nil, t.Out, nil)
	default:
		panic("tx: unknown transaction variant")
	}
	return json.MarshalIndent(dto, "", "  ")
}

func fillCommonJSON(dto *jsonTx, in []Input, out []Output, wit []Witness) {
	for _, i := range in {
		dto.Inputs = append(dto.Inputs, inputToJSON(i))
	}
	for _, o := range out {
		dto.Outputs = append(dto.Outputs, outputToJSON(o))
	}
	for _, w := range wit {
		dto.Witnesses = append(dto.Witnesses, hexBytes(w.Data))
	}
}

func deref(v *Bytes32) Bytes32 {
	if v == nil {
		return Bytes32{}
	}
	return *v
}

func utxoIDFromJSON(u *jsonUtxoID) UtxoID {
	if u == nil {
		return UtxoID{}
	}
	return UtxoID{TxID: u.TxID, OutputIndex: u.OutputIndex}
}

func pointerFromJSON(p *jsonTxPointer) TxPointer {
	if p == nil {
		return TxPointer{}
	}
	return TxPointer{BlockHeight: p.BlockHeight, TxIndex: p.TxIndex}
}

func inputFromJSON(dto jsonInput) (Input, error) {
	switch dto.Type {
	case jsonInputCoinSigned:
		return &InputCoinSigned{
			UtxoID:       utxoIDFromJSON(dto.UtxoID),
			Owner:        deref(dto.Owner),
			Amount:       dto.Amount,
			AssetID:      deref(dto.AssetID),
			TxPointer:    pointerFromJSON(dto.TxPointer),
			WitnessIndex: dto.WitnessIndex,
			Maturity:     dto.Maturity,
		}, nil
	case jsonInputCoinPredicate:
		return &InputCoinPredicate{
			UtxoID:        utxoIDFromJSON(dto.UtxoID),
			Owner:         deref(dto.Owner),
			Amount:        dto.Amount,
			AssetID:       deref(dto.AssetID),
			TxPointer:     pointerFromJSON(dto.TxPointer),
			Maturity:      dto.Maturity,
			Predicate:     dto.Predicate,
			PredicateData: dto.PredicateData,
		}, nil
	case jsonInputContract:
		return &InputContract{
			UtxoID:      utxoIDFromJSON(dto.UtxoID),
			BalanceRoot: deref(dto.BalanceRoot),
			StateRoot:   deref(dto.StateRoot),
			TxPointer:   pointerFromJSON(dto.TxPointer),
			ContractID:  deref(dto.ContractID),
		}, nil
	case jsonInputMessageSigned:
		return &InputMessageSigned{
			MessageID:    deref(dto.MessageID),
			Sender:       deref(dto.Sender),
			Recipient:    deref(dto.Recipient),
			Amount:       dto.Amount,
			Nonce:        dto.Nonce,
			WitnessIndex: dto.WitnessIndex,
			Data:         dto.Data,
		}, nil
	case jsonInputMessagePredicate:
		return &InputMessagePredicate{
			MessageID:     deref(dto.MessageID),
			Sender:        deref(dto.Sender),
			Recipient:     deref(dto.Recipient),
			Amount:        dto.Amount,
			Nonce:         dto.Nonce,
			Data:          dto.Data,
			Predicate:     dto.Predicate,
			PredicateData: dto.PredicateData,
		}, nil
	default:
		return nil, fmt.Errorf("tx: unknown input type %q", dto.Type)
	}
}

func outputFromJSON(dto jsonOutput) (Output, error) {
	switch dto.Type {
	case jsonOutputCoin:
		return &OutputCoin{To: deref(dto.To), Amount: dto.Amount, AssetID: deref(dto.AssetID)}, nil
	case jsonOutputContract:
		return &OutputContract{InputIndex: dto.InputIndex, BalanceRoot: deref(dto.BalanceRoot), StateRoot: deref(dto.StateRoot)}, nil
	case jsonOutputChange:
		return &OutputChange{To: deref(dto.To), Amount: dto.Amount, AssetID: deref(dto.AssetID)}, nil
	case jsonOutputVariable:
		return &OutputVariable{To: deref(dto.To), Amount: dto.Amount, AssetID: deref(dto.AssetID)}, nil
	case jsonOutputContractCreated:
		return &OutputContractCreated{ContractID: deref(dto.ContractID), StateRoot: deref(dto.StateRoot)}, nil
	default:
		return nil, fmt.Errorf("tx: unknown output type %q", dto.Type)
	}
}

// FromJSON parses the interchange form back into a transaction.
func FromJSON(data []byte) (Transaction, error) {
	var dto jsonTx
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("tx: %w", err)
	}

	var in []Input
	for _, d := range dto.Inputs {
		i, err := inputFromJSON(d)
		if err != nil {
			return nil, err
		}
		in = append(in, i)
	}
	var out []Output
	for _, d := range dto.Outputs {
		o, err := outputFromJSON(d)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	var wit []Witness
	for _, d := range dto.Witnesses {
		wit = append(wit, Witness{Data: d})
	}

	switch dto.Type {
	case jsonTypeScript:
		return &Script{
			GasPrice:     dto.GasPrice,
			GasLimit:     dto.GasLimit,
			Maturity:     dto.Maturity,
			ReceiptsRoot: deref(dto.ReceiptsRoot),
			Script:       dto.Script,
			ScriptData:   dto.ScriptData,
			In:           in,
			Out:          out,
			Wit:          wit,
		}, nil
	case jsonTypeCreate:
		var slots []StorageSlot
		for _, s := range dto.StorageSlots {
			slots = append(slots, StorageSlot{Key: s.Key, Value: s.Value})
		}
		return &Create{
			GasPrice:             dto.GasPrice,
			GasLimit:             dto.GasLimit,
			Maturity:             dto.Maturity,
			BytecodeLength:       dto.BytecodeLength,
			BytecodeWitnessIndex: dto.BytecodeWitnessIndex,
			Salt:                 deref(dto.Salt),
			StorageSlots:         slots,
			In:                   in,
			Out:                  out,
			Wit:                  wit,
		}, nil
	case jsonTypeMint:
		if len(in) > 0 || len(wit) > 0 {
			return nil, fmt.Errorf("tx: mint carries no inputs or witnesses")
		}
		return &Mint{TxPointer: pointerFromJSON(dto.TxPointer), Out: out}, nil
	default:
		return nil, fmt.Errorf("tx: unknown transaction type %q", dto.Type)
	}
}
