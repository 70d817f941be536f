package state

// Wallet holds the session currency. The balance never goes below zero.
type Wallet struct {
	balance int
}

// Add applies a reward. Negative amounts are clamped so the balance stops
// at zero instead of going negative.
func (w *Wallet) Add(amount int) {
	w.balance = max(0, w.balance+amount)
}

// Spend deducts amount if the balance covers it. Insufficient funds or a
// negative amount leave the balance untouched and return false.
func (w *Wallet) Spend(amount int) bool {
	if amount < 0 || amount > w.balance {
		return false
	}
	w.balance -= amount
	return true
}

func (w *Wallet) Balance() int {
	return w.balance
}
