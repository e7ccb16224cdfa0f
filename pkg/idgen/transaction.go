package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	TransactionPrefix = "TXN-"
	transactionLength = 12
	transactionAlpha  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// TransactionIDFunc produces booking transaction references.
type TransactionIDFunc func() (string, error)

// NewTransactionID returns "TXN-" followed by 12 characters from [A-Z0-9].
func NewTransactionID() (string, error) {
	buf := make([]byte, 0, len(TransactionPrefix)+transactionLength)
	buf = append(buf, TransactionPrefix...)

	max := big.NewInt(int64(len(transactionAlpha)))
	for i := 0; i < transactionLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("idgen: read random: %w", err)
		}
		buf = append(buf, transactionAlpha[n.Int64()])
	}
	return string(buf), nil
}
