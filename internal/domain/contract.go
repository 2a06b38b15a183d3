package domain

import "time"

// Contract — контракт между клиентом и группой по принятой заявке.
// Агрегат внешний по отношению к циклу заявки: ядро интересует только факт
// полной подписи, который превращается в событие ContractSigned.
type Contract struct {
	ID             string
	BookingID      string
	SignedByClient bool
	SignedByBand   bool
	FileURL        string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SignByClient отмечает подпись клиента.
func (c *Contract) SignByClient() error {
	if c.SignedByClient {
		return ErrContractAlreadySigned
	}
	c.SignedByClient = true
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SignByBand отмечает подпись группы.
func (c *Contract) SignByBand() error {
	if c.SignedByBand {
		return ErrContractAlreadySigned
	}
	c.SignedByBand = true
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// FullySigned сообщает, подписан ли контракт обеими сторонами.
func (c *Contract) FullySigned() bool {
	return c.SignedByClient && c.SignedByBand
}
