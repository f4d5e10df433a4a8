package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("некорректные данные")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func (t *Transaction) Validate() error {
	if t.UserID <= 0 {
		return invalid("не указан пользователь")
	}
	if !t.Amount.IsPositive() {
		return invalid("сумма должна быть положительной")
	}
	if t.Type != TransactionIncome && t.Type != TransactionExpense {
		return invalid("неизвестный тип транзакции %q", t.Type)
	}
	if t.Date.IsZero() {
		return invalid("не указана дата")
	}
	return nil
}

func (c *Category) Validate() error {
	if c.UserID <= 0 {
		return invalid("не указан пользователь")
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalid("пустое название категории")
	}
	if c.Type != TransactionIncome && c.Type != TransactionExpense {
		return invalid("неизвестный тип категории %q", c.Type)
	}
	return nil
}

func (b *Budget) Validate() error {
	if b.UserID <= 0 || b.CategoryID <= 0 {
		return invalid("не указан пользователь или категория")
	}
	if !b.Amount.IsPositive() {
		return invalid("сумма бюджета должна быть положительной")
	}
	if !BudgetPeriods[b.Period] {
		return invalid("неизвестный период %q", b.Period)
	}
	if b.StartDate.IsZero() || b.EndDate.Before(b.StartDate) {
		return invalid("дата окончания раньше даты начала")
	}
	return nil
}

func (a *Account) Validate() error {
	if a.UserID <= 0 {
		return invalid("не указан пользователь")
	}
	if strings.TrimSpace(a.Name) == "" {
		return invalid("пустое название счета")
	}
	if !AccountTypes[a.Type] {
		return invalid("неизвестный тип счета %q", a.Type)
	}
	if len(a.Currency) != 3 {
		return invalid("код валюты должен состоять из трех букв")
	}
	return nil
}

func (c *Card) Validate() error {
	if c.UserID <= 0 || c.AccountID <= 0 {
		return invalid("не указан пользователь или счет")
	}
	if len(c.Last4) != 4 || strings.Trim(c.Last4, "0123456789") != "" {
		return invalid("last4 должен содержать четыре цифры")
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 || c.DueDay < 1 || c.DueDay > 31 {
		return invalid("день должен быть в диапазоне 1-31")
	}
	return nil
}

func (c *Contact) Validate() error {
	if c.UserID <= 0 {
		return invalid("не указан пользователь")
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalid("пустое имя контакта")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return invalid("некорректный формат email")
	}
	return nil
}

func (g *Goal) Validate() error {
	if g.UserID <= 0 {
		return invalid("не указан пользователь")
	}
	if strings.TrimSpace(g.Name) == "" {
		return invalid("пустое название цели")
	}
	if !g.Amount.IsPositive() {
		return invalid("сумма цели должна быть положительной")
	}
	return nil
}

func (r *PaymentReminder) Validate() error {
	if r.UserID <= 0 {
		return invalid("не указан пользователь")
	}
	if !r.Amount.IsPositive() {
		return invalid("некорректная сумма напоминания")
	}
	if r.DueDate.IsZero() {
		return invalid("не указана дата платежа")
	}
	return nil
}
