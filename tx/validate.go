package tx

import (
	"fmt"

	"quanta.dev/vm/crypto"
)

// BaseAssetID is the asset fees are paid in.
var BaseAssetID = AssetID{}

// Checked wraps a transaction that passed Check. It is the proof-of-work
// token of this package: only Check constructs it, so an API that takes
// *Checked cannot receive an unvalidated transaction. It snapshots the ID,
// the fee range and the block height it was validated at.
type Checked struct {
	tx          Transaction
	id          TxID
	fee         TransactionFee
	blockHeight uint64
}

// Transaction returns the validated transaction. Callers must not mutate
// it; Checked holds a private clone so mutation of the original input is
// harmless.
func (c *Checked) Transaction() Transaction { return c.tx }

// ID returns the transaction identifier snapshotted at validation.
func (c *Checked) ID() TxID { return c.id }

// Fee returns the fee range snapshotted at validation.
func (c *Checked) Fee() TransactionFee { return c.fee }

// BlockHeight returns the height the transaction was validated against.
func (c *Checked) BlockHeight() uint64 { return c.blockHeight }

func fieldInput(i int) string   { return fmt.Sprintf("inputs[%d]", i) }
func fieldOutput(i int) string  { return fmt.Sprintf("outputs[%d]", i) }
func fieldWitness(i int) string { return fmt.Sprintf("witnesses[%d]", i) }

// Check validates t against params at blockHeight and returns the Checked
// wrapper, including signature recovery for every signed input. Checks run
// in a fixed order and stop at the first violation, so error reporting is
// deterministic for a given transaction.
func Check(p crypto.Provider, t Transaction, blockHeight uint64, params ConsensusParameters) (*Checked, error) {
	return check(p, t, blockHeight, params, true)
}

// CheckUnsigned is Check without the signature-recovery step. Builders and
// predicate-estimation tooling validate structure before witnesses exist.
func CheckUnsigned(p crypto.Provider, t Transaction, blockHeight uint64, params ConsensusParameters) (*Checked, error) {
	return check(p, t, blockHeight, params, false)
}

func check(p crypto.Provider, t Transaction, blockHeight uint64, params ConsensusParameters, signatures bool) (*Checked, error) {
	params.mustValid()

	if err := checkCounts(t, params); err != nil {
		return nil, err
	}
	if err := checkFieldLengths(t, params); err != nil {
		return nil, err
	}
	if err := checkGasAndMaturity(t, blockHeight, params); err != nil {
		return nil, err
	}
	if err := checkWitnessIndexes(t); err != nil {
		return nil, err
	}
	if err := checkInputUniqueness(t); err != nil {
		return nil, err
	}
	fee, err := checkFee(t, params)
	if err != nil {
		return nil, err
	}
	if err := checkShape(p, t); err != nil {
		return nil, err
	}
	if signatures {
		if err := checkSignatures(p, t); err != nil {
			return nil, err
		}
	}

	return &Checked{
		tx:          cloneTx(t),
		id:          ComputeID(p, t),
		fee:         fee,
		blockHeight: blockHeight,
	}, nil
}

func checkCounts(t Transaction, params ConsensusParameters) error {
	if n := uint64(len(t.Inputs())); n > params.MaxInputs {
		return violation(ErrInputsMax, "inputs", "%d inputs, max %d", n, params.MaxInputs)
	}
	if n := uint64(len(t.Outputs())); n > params.MaxOutputs {
		return violation(ErrOutputsMax, "outputs", "%d outputs, max %d", n, params.MaxOutputs)
	}
	if n := uint64(len(t.Witnesses())); n > params.MaxWitnesses {
		return violation(ErrWitnessesMax, "witnesses", "%d witnesses, max %d", n, params.MaxWitnesses)
	}
	if n := uint64(t.EncodedSize()); n > params.MaxTransactionSize {
		return violation(ErrSizeMax, "", "%d encoded bytes, max %d", n, params.MaxTransactionSize)
	}
	return nil
}

func checkFieldLengths(t Transaction, params ConsensusParameters) error {
	switch t := t.(type) {
	case *Script:
		if uint64(len(t.Script)) > params.MaxScriptLength {
			return violation(ErrScriptLength, "script", "%d bytes, max %d", len(t.Script), params.MaxScriptLength)
		}
		if uint64(len(t.ScriptData)) > params.MaxScriptDataLength {
			return violation(ErrScriptDataLength, "script_data", "%d bytes, max %d", len(t.ScriptData), params.MaxScriptDataLength)
		}
	case *Create:
		if uint64(len(t.StorageSlots)) > params.MaxStorageSlots {
			return violation(ErrCreateStorageSlotMax, "storage_slots", "%d slots, max %d", len(t.StorageSlots), params.MaxStorageSlots)
		}
		// Bytecode size is bounded here; the witness linkage itself is a
		// shape rule.
		size, ok := mulUint64(t.BytecodeLength, 4)
		if !ok || size > params.ContractMaxSize {
			return violation(ErrCreateBytecodeLength, "bytecode_length", "%d words exceed contract max size %d", t.BytecodeLength, params.ContractMaxSize)
		}
	}

	checkPredicate := func(i int, predicate, predicateData []byte) error {
		if len(predicate) == 0 {
			return violation(ErrPredicateEmpty, fieldInput(i), "predicate input with empty predicate")
		}
		if uint64(len(predicate)) > params.MaxPredicateLength {
			return violation(ErrPredicateLength, fieldInput(i), "%d bytes, max %d", len(predicate), params.MaxPredicateLength)
		}
		if uint64(len(predicateData)) > params.MaxPredicateDataLength {
			return violation(ErrPredicateDataLength, fieldInput(i), "%d bytes, max %d", len(predicateData), params.MaxPredicateDataLength)
		}
		return nil
	}
	for i, in := range t.Inputs() {
		switch in := in.(type) {
		case *InputCoinPredicate:
			if err := checkPredicate(i, in.Predicate, in.PredicateData); err != nil {
				return err
			}
		case *InputMessageSigned:
			if uint64(len(in.Data)) > params.MaxMessageDataLength {
				return violation(ErrMessageDataLength, fieldInput(i), "%d bytes, max %d", len(in.Data), params.MaxMessageDataLength)
			}
		case *InputMessagePredicate:
			if uint64(len(in.Data)) > params.MaxMessageDataLength {
				return violation(ErrMessageDataLength, fieldInput(i), "%d bytes, max %d", len(in.Data), params.MaxMessageDataLength)
			}
			if err := checkPredicate(i, in.Predicate, in.PredicateData); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkGasAndMaturity(t Transaction, blockHeight uint64, params ConsensusParameters) error {
	var gasLimit, maturity uint64
	switch t := t.(type) {
	case *Script:
		gasLimit, maturity = t.GasLimit, t.Maturity
	case *Create:
		gasLimit, maturity = t.GasLimit, t.Maturity
	case *Mint:
		return nil
	}
	if gasLimit > params.MaxGasPerTx {
		return violation(ErrGasLimitMax, "gas_limit", "%d, max %d", gasLimit, params.MaxGasPerTx)
	}
	if maturity > blockHeight {
		return violation(ErrMaturity, "maturity", "matures at %d, height is %d", maturity, blockHeight)
	}
	for i, in := range t.Inputs() {
		var inMaturity uint64
		switch in := in.(type) {
		case *InputCoinSigned:
			inMaturity = in.Maturity
		case *InputCoinPredicate:
			inMaturity = in.Maturity
		default:
			continue
		}
		if inMaturity > blockHeight {
			return violation(ErrMaturity, fieldInput(i), "matures at %d, height is %d", inMaturity, blockHeight)
		}
	}
	return nil
}

func checkWitnessIndexes(t Transaction) error {
	witnesses := len(t.Witnesses())
	for i, in := range t.Inputs() {
		var idx uint8
		switch in := in.(type) {
		case *InputCoinSigned:
			idx = in.WitnessIndex
		case *InputMessageSigned:
			idx = in.WitnessIndex
		default:
			continue
		}
		if int(idx) >= witnesses {
			return violation(ErrWitnessIndexBounds, fieldInput(i), "witness index %d, %d witnesses", idx, witnesses)
		}
	}
	if c, isCreate := t.(*Create); isCreate {
		if int(c.BytecodeWitnessIndex) >= witnesses {
			return violation(ErrCreateBytecodeWitness, "bytecode_witness_index", "index %d, %d witnesses", c.BytecodeWitnessIndex, witnesses)
		}
	}
	return nil
}

func checkInputUniqueness(t Transaction) error {
	utxos := make(map[UtxoID]struct{})
	messages := make(map[MessageID]struct{})
	contracts := make(map[ContractID]struct{})
	for i, in := range t.Inputs() {
		switch in := in.(type) {
		case *InputCoinSigned:
			if _, dup := utxos[in.UtxoID]; dup {
				return violation(ErrDuplicateUtxoID, fieldInput(i), "utxo %s spent twice", in.UtxoID)
			}
			utxos[in.UtxoID] = struct{}{}
		case *InputCoinPredicate:
			if _, dup := utxos[in.UtxoID]; dup {
				return violation(ErrDuplicateUtxoID, fieldInput(i), "utxo %s spent twice", in.UtxoID)
			}
			utxos[in.UtxoID] = struct{}{}
		case *InputContract:
			if _, dup := utxos[in.UtxoID]; dup {
				return violation(ErrDuplicateUtxoID, fieldInput(i), "utxo %s spent twice", in.UtxoID)
			}
			utxos[in.UtxoID] = struct{}{}
			if _, dup := contracts[in.ContractID]; dup {
				return violation(ErrDuplicateContractID, fieldInput(i), "contract %s brought in twice", in.ContractID)
			}
			contracts[in.ContractID] = struct{}{}
		case *InputMessageSigned:
			if _, dup := messages[in.MessageID]; dup {
				return violation(ErrDuplicateMessageID, fieldInput(i), "message %s spent twice", in.MessageID)
			}
			messages[in.MessageID] = struct{}{}
		case *InputMessagePredicate:
			if _, dup := messages[in.MessageID]; dup {
				return violation(ErrDuplicateMessageID, fieldInput(i), "message %s spent twice", in.MessageID)
			}
			messages[in.MessageID] = struct{}{}
		}
	}
	return nil
}

// freeBalances sums the spendable input amounts per asset with checked
// arithmetic. Coin inputs contribute in their asset; message inputs
// contribute in the base asset.
func freeBalances(t Transaction) (map[AssetID]uint64, error) {
	balances := make(map[AssetID]uint64)
	add := func(i int, asset AssetID, amount uint64) error {
		sum, ok := addUint64(balances[asset], amount)
		if !ok {
			return violation(ErrArithmeticOverflow, fieldInput(i), "input amounts overflow for asset %s", asset)
		}
		balances[asset] = sum
		return nil
	}
	for i, in := range t.Inputs() {
		switch in := in.(type) {
		case *InputCoinSigned:
			if err := add(i, in.AssetID, in.Amount); err != nil {
				return nil, err
			}
		case *InputCoinPredicate:
			if err := add(i, in.AssetID, in.Amount); err != nil {
				return nil, err
			}
		case *InputMessageSigned:
			if err := add(i, BaseAssetID, in.Amount); err != nil {
				return nil, err
			}
		case *InputMessagePredicate:
			if err := add(i, BaseAssetID, in.Amount); err != nil {
				return nil, err
			}
		}
	}
	return balances, nil
}

// checkFee prices the transaction and verifies the declared outputs and
// the maximum fee are covered by the free balances.
func checkFee(t Transaction, params ConsensusParameters) (TransactionFee, error) {
	fee, ok := ComputeFee(t, params)
	if !ok {
		return TransactionFee{}, violation(ErrArithmeticOverflow, "gas_limit", "fee computation overflows")
	}
	if _, isMint := t.(*Mint); isMint {
		return fee, nil
	}

	balances, err := freeBalances(t)
	if err != nil {
		return TransactionFee{}, err
	}

	// The base asset must cover the worst-case fee plus whatever the
	// transaction sends; other assets must cover their sends. Walking the
	// outputs in order keeps the reported violation deterministic.
	if fee.Total > balances[BaseAssetID] {
		return TransactionFee{}, violation(ErrInsufficientFee, "", "fee %d exceeds base asset balance %d", fee.Total, balances[BaseAssetID])
	}
	spent := map[AssetID]uint64{BaseAssetID: fee.Total}
	for i, out := range t.Outputs() {
		o, isCoin := out.(*OutputCoin)
		if !isCoin {
			continue
		}
		if _, funded := balances[o.AssetID]; !funded {
			return TransactionFee{}, violation(ErrOutputAssetNotFound, fieldOutput(i), "no input provides asset %s", o.AssetID)
		}
		sum, ok := addUint64(spent[o.AssetID], o.Amount)
		if !ok {
			return TransactionFee{}, violation(ErrArithmeticOverflow, fieldOutput(i), "output amounts overflow for asset %s", o.AssetID)
		}
		if sum > balances[o.AssetID] {
			return TransactionFee{}, violation(ErrInsufficientInput, fieldOutput(i), "spend %d exceeds balance %d for asset %s", sum, balances[o.AssetID], o.AssetID)
		}
		spent[o.AssetID] = sum
	}
	return fee, nil
}

// checkShape runs the variant-specific rules before the generic change and
// predicate rules, so a Create reports its own stricter change violation
// rather than the generic unfunded-asset one.
func checkShape(p crypto.Provider, t Transaction) error {
	switch t := t.(type) {
	case *Script:
		if err := checkScriptShape(t); err != nil {
			return err
		}
	case *Create:
		if err := checkCreateShape(p, t); err != nil {
			return err
		}
	case *Mint:
		return checkMintShape(t)
	default:
		panic("tx: unknown transaction variant")
	}
	if err := checkChangeOutputs(t); err != nil {
		return err
	}
	return checkPredicateOwners(p, t)
}

// checkChangeOutputs enforces at most one Change output per asset, each
// backed by an input of that asset.
func checkChangeOutputs(t Transaction) error {
	if _, isMint := t.(*Mint); isMint {
		return nil
	}
	balances, err := freeBalances(t)
	if err != nil {
		return err
	}
	seen := make(map[AssetID]struct{})
	for i, out := range t.Outputs() {
		o, isChange := out.(*OutputChange)
		if !isChange {
			continue
		}
		if _, dup := seen[o.AssetID]; dup {
			return violation(ErrChangeAssetDuplicated, fieldOutput(i), "second change output for asset %s", o.AssetID)
		}
		seen[o.AssetID] = struct{}{}
		if _, funded := balances[o.AssetID]; !funded {
			return violation(ErrOutputAssetNotFound, fieldOutput(i), "no input provides asset %s", o.AssetID)
		}
	}
	return nil
}

func checkPredicateOwners(p crypto.Provider, t Transaction) error {
	for i, in := range t.Inputs() {
		switch in := in.(type) {
		case *InputCoinPredicate:
			if PredicateOwner(p, in.Predicate) != in.Owner {
				return violation(ErrPredicateOwner, fieldInput(i), "owner does not match predicate root")
			}
		case *InputMessagePredicate:
			if PredicateOwner(p, in.Predicate) != in.Recipient {
				return violation(ErrPredicateOwner, fieldInput(i), "recipient does not match predicate root")
			}
		}
	}
	return nil
}

// checkScriptShape forbids deployment outputs and pairs every contract
// input with exactly one contract output and vice versa.
func checkScriptShape(t *Script) error {
	paired := make(map[int]int) // input index -> output index
	for i, out := range t.Out {
		switch out := out.(type) {
		case *OutputContractCreated:
			return violation(ErrScriptOutputContract, fieldOutput(i), "contract deployment in a script transaction")
		case *OutputContract:
			idx := int(out.InputIndex)
			if idx >= len(t.In) {
				return violation(ErrContractPairing, fieldOutput(i), "input index %d out of range", idx)
			}
			if _, isContract := t.In[idx].(*InputContract); !isContract {
				return violation(ErrContractPairing, fieldOutput(i), "input %d is not a contract input", idx)
			}
			if prev, dup := paired[idx]; dup {
				return violation(ErrContractPairing, fieldOutput(i), "input %d already paired with output %d", idx, prev)
			}
			paired[idx] = i
		}
	}
	for i, in := range t.In {
		if _, isContract := in.(*InputContract); !isContract {
			continue
		}
		if _, ok := paired[i]; !ok {
			return violation(ErrContractPairing, fieldInput(i), "contract input has no contract output")
		}
	}
	return nil
}

func checkCreateShape(p crypto.Provider, t *Create) error {
	for i, in := range t.In {
		if _, isContract := in.(*InputContract); isContract {
			return violation(ErrCreateInputContract, fieldInput(i), "contract input in a create transaction")
		}
	}

	created := -1
	for i, out := range t.Out {
		switch out := out.(type) {
		case *OutputContract:
			return violation(ErrCreateOutputContract, fieldOutput(i), "contract output in a create transaction")
		case *OutputVariable:
			return violation(ErrCreateOutputVariable, fieldOutput(i), "variable output in a create transaction")
		case *OutputChange:
			if out.AssetID != BaseAssetID {
				return violation(ErrCreateChangeNotBase, fieldOutput(i), "change in asset %s", out.AssetID)
			}
		case *OutputContractCreated:
			if created >= 0 {
				return violation(ErrCreateContractCreated, fieldOutput(i), "second deployment output (first at %d)", created)
			}
			created = i
		}
	}

	for i := 1; i < len(t.StorageSlots); i++ {
		if !t.StorageSlots[i-1].Less(t.StorageSlots[i]) {
			return violation(ErrCreateStorageSlotOrder, fmt.Sprintf("storage_slots[%d]", i), "slots not in strictly ascending key order")
		}
	}

	// Witness indexes were bounds-checked earlier; here the bytecode
	// witness must match the declared instruction-word length.
	bytecode := t.Wit[t.BytecodeWitnessIndex].Data
	if uint64(len(bytecode)) != t.BytecodeLength*4 {
		return violation(ErrCreateBytecodeWitness, fieldWitness(int(t.BytecodeWitnessIndex)),
			"witness is %d bytes, declared %d words", len(bytecode), t.BytecodeLength)
	}

	if created >= 0 {
		out := t.Out[created].(*OutputContractCreated)
		storageRoot := StorageSlotsRoot(p, t.StorageSlots)
		wantID := ComputeContractID(p, t.Salt, BytecodeRoot(p, bytecode), storageRoot)
		if out.ContractID != wantID || out.StateRoot != storageRoot {
			return violation(ErrCreateContractID, fieldOutput(created), "deployment output does not match salt, bytecode and storage")
		}
	}
	return nil
}

func checkMintShape(t *Mint) error {
	seen := make(map[AssetID]struct{})
	for i, out := range t.Out {
		o, isCoin := out.(*OutputCoin)
		if !isCoin {
			return violation(ErrMintOutputNotCoin, fieldOutput(i), "mint outputs must be coins")
		}
		if _, dup := seen[o.AssetID]; dup {
			return violation(ErrMintAssetDuplicated, fieldOutput(i), "second coin for asset %s", o.AssetID)
		}
		seen[o.AssetID] = struct{}{}
	}
	return nil
}

// checkSignatures recovers the signer of every signed input from its
// witness and compares against the declared owner. The address of a key is
// the hash of its compressed public key.
func checkSignatures(p crypto.Provider, t Transaction) error {
	var id Bytes32
	computed := false
	witnesses := t.Witnesses()
	for i, in := range t.Inputs() {
		var idx uint8
		var owner Address
		switch in := in.(type) {
		case *InputCoinSigned:
			idx, owner = in.WitnessIndex, in.Owner
		case *InputMessageSigned:
			idx, owner = in.WitnessIndex, in.Recipient
		default:
			continue
		}
		if !computed {
			// Signed inputs all commit to the same digest, the
			// transaction ID preimage.
			var err error
			if id, err = SigningHash(p, t, i); err != nil {
				return err
			}
			computed = true
		}
		sig := witnesses[idx].Data
		if len(sig) != crypto.SignatureLen {
			return violation(ErrInvalidSignature, fieldInput(i), "witness %d is %d bytes, want %d", idx, len(sig), crypto.SignatureLen)
		}
		pub, err := p.RecoverPublicKey(id, sig)
		if err != nil {
			return violation(ErrInvalidSignature, fieldInput(i), "recover: %v", err)
		}
		if p.Hash256(pub) != owner {
			return violation(ErrInvalidSignature, fieldInput(i), "recovered signer does not match owner")
		}
	}
	return nil
}
