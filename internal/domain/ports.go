package domain

// BandData — read-side данные группы, получаемые через коннектор.
type BandData struct {
	ID      string
	Name    string
	Members []string
}

// UserData — read-side данные пользователя, получаемые через коннектор.
type UserData struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// ModuleConnector — read-side мост между модулями. Позволяет ядру читать
// данные соседних агрегатов без прямой зависимости от их модулей.
type ModuleConnector interface {
	// ObtainBandMembers возвращает идентификаторы участников группы.
	ObtainBandMembers(bandID string) ([]string, error)
	// GetBookingByContractID возвращает плоское представление заявки по контракту.
	GetBookingByContractID(contractID string) (BookingPrimitives, error)
	// GetBandByID возвращает данные группы.
	GetBandByID(bandID string) (BandData, error)
	// ObtainUserInformation возвращает данные пользователя.
	ObtainUserInformation(userID string) (UserData, error)
	// StoreFile сохраняет отрисованный документ во внешнем хранилище.
	StoreFile(name string, data []byte) error
}

// ContractGenerator создаёт контракт по принятой заявке.
// Реальная генерация (шаблон, PDF) живёт за пределами ядра.
type ContractGenerator interface {
	Generate(bookingID, bandID, requestedBy string) (Contract, error)
}

// InvoiceRenderer отрисовывает документ счёта. Формат документа — забота
// реализации; ядру важны только байты для внешнего хранилища.
type InvoiceRenderer interface {
	Render(booking BookingPrimitives, band BandData, user UserData, amountMinor int64) ([]byte, error)
}
