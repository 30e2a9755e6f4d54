package near

import (
	"encoding/json"
	"math/big"

	"github.com/nearft/relay/internal/apperr"
)

var (
	errAmountOverflow = apperr.New(apperr.InvalidInput, "amount exceeds u128 range")
	maxU128           = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// ftTransferGas is the gas attached to every ft_transfer call: 30 Tgas,
// matching the prototype's fixed allowance.
const ftTransferGas = 30_000_000_000_000

// ftTransferDeposit is the 1 yoctoNEAR security deposit ft_transfer
// requires to guard against a restricted-access-key replay.
const ftTransferDeposit = 1

type ftTransferArgs struct {
	ReceiverID string `json:"receiver_id"`
	Amount     string `json:"amount"`
	Memo       string `json:"memo,omitempty"`
}

// ValidateAmount parses amount as a base-10 u128 string and rejects
// anything negative, non-numeric, or out of u128 range. Zero is a valid
// amount: the transfer is admitted and reconciled like any other, it just
// never reaches the chain as its own action (see BuildFtTransferAction's
// callers in the batching worker).
func ValidateAmount(amount string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, apperr.New(apperr.InvalidInput, "amount is not a valid integer")
	}
	if v.Sign() < 0 {
		return nil, apperr.New(apperr.InvalidInput, "amount must not be negative")
	}
	if v.Cmp(maxU128) > 0 {
		return nil, errAmountOverflow
	}
	return v, nil
}

// BuildFtTransferAction builds the FunctionCall action a single transfer
// request turns into: method "ft_transfer", 30 Tgas, 1 yoctoNEAR deposit,
// args {receiver_id, amount, memo}.
func BuildFtTransferAction(receiverID, amount, memo string) (*FunctionCallAction, error) {
	if receiverID == "" {
		return nil, apperr.New(apperr.InvalidInput, "reciever_id must not be empty")
	}
	if _, err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	args, err := json.Marshal(ftTransferArgs{ReceiverID: receiverID, Amount: amount, Memo: memo})
	if err != nil {
		return nil, apperr.Wrap(apperr.BatchBuildError, "failed to marshal ft_transfer args", err)
	}

	return &FunctionCallAction{
		MethodName: "ft_transfer",
		Args:       args,
		Gas:        ftTransferGas,
		Deposit:    big.NewInt(ftTransferDeposit),
	}, nil
}
