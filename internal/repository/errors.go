// Package repository содержит реализации хранилища реестра баллов.
package repository

import "errors"

var (
	// ErrLedgerCorrupted возвращается, если сохранённый реестр не удаётся разобрать.
	ErrLedgerCorrupted = errors.New("ledger data corrupted")
	// ErrRefCodeTaken возвращается, если реферальный код уже принадлежит другому пользователю.
	ErrRefCodeTaken = errors.New("referral code already taken")
	// ErrLockNotAcquired возвращается, если не удалось захватить блокировку реестра.
	ErrLockNotAcquired = errors.New("ledger lock not acquired")
)
