package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	OptionListSize = 5

	NotAvailable       = "not available"
	PlaceholderTitle   = "No More Options Available"
	PlaceholderURL     = "N/A"
	legacyNotAvailable = "N/A"

	maxAmountIntegerDigits = 15
	maxAmountScale         = 12
)

// AmountInRange сообщает, помещается ли сумма в 15 целых и 12 дробных знаков.
// Проверка идет по экспоненте до любых вычислений, иначе 1e30000000 разворачивается в миллионы цифр.
func AmountInRange(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	if exp > maxAmountIntegerDigits || exp < -maxAmountScale {
		return false
	}

	return amount.NumDigits()+int(exp) <= maxAmountIntegerDigits
}

// Price хранит числовую цену либо признак "not available".
type Price struct {
	amount    decimal.Decimal
	available bool
}

// PriceOf создает доступную цену.
func PriceOf(amount decimal.Decimal) Price {
	return Price{amount: amount, available: true}
}

// UnavailablePrice возвращает цену-заглушку.
func UnavailablePrice() Price {
	return Price{}
}

func (p Price) Available() bool {
	return p.available
}

// Amount возвращает значение цены; для недоступной цены это ноль.
func (p Price) Amount() decimal.Decimal {
	if !p.available {
		return decimal.Zero
	}
	return p.amount
}

func (p Price) String() string {
	if !p.available {
		return NotAvailable
	}
	return p.amount.String()
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.available {
		return json.Marshal(NotAvailable)
	}
	return p.amount.MarshalJSON()
}

func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*p = UnavailablePrice()
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		if text == NotAvailable || text == legacyNotAvailable || text == "" {
			*p = UnavailablePrice()
			return nil
		}
	}

	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("decode price: %w", err)
	}
	if !AmountInRange(amount) {
		return fmt.Errorf("decode price: amount out of range")
	}

	*p = PriceOf(amount)
	return nil
}

type Option struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Price Price  `json:"price"`
}

// PlaceholderOption возвращает запись-заполнитель для короткого списка.
func PlaceholderOption() Option {
	return Option{Title: PlaceholderTitle, URL: PlaceholderURL, Price: UnavailablePrice()}
}

// IsPlaceholder сообщает, является ли запись заполнителем.
func (o Option) IsPlaceholder() bool {
	return o.Title == PlaceholderTitle && o.URL == PlaceholderURL && !o.Price.Available()
}

// OptionList всегда содержит ровно OptionListSize записей.
type OptionList [OptionListSize]Option

// NewOptionList берет первые пять записей и дополняет недостающие заполнителями.
func NewOptionList(options []Option) OptionList {
	var list OptionList
	for i := range list {
		if i < len(options) {
			list[i] = options[i]
			continue
		}
		list[i] = PlaceholderOption()
	}
	return list
}

// Complete сообщает, что у каждой записи есть заголовок и ссылка.
func (l OptionList) Complete() bool {
	for _, option := range l {
		if option.Title == "" || option.URL == "" {
			return false
		}
	}
	return true
}

// Total суммирует все доступные цены списка.
func (l OptionList) Total() decimal.Decimal {
	total := decimal.Zero
	for _, option := range l {
		if option.Price.Available() {
			total = total.Add(option.Price.Amount())
		}
	}
	return total
}

func (l *OptionList) UnmarshalJSON(data []byte) error {
	var options []Option
	if err := json.Unmarshal(data, &options); err != nil {
		return err
	}
	if len(options) != OptionListSize {
		return fmt.Errorf("option list must contain %d entries, got %d", OptionListSize, len(options))
	}

	copy(l[:], options)
	return nil
}
