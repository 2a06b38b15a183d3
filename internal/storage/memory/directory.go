package memory

import (
	"fmt"
	"sync"

	"github.com/bandbridge/backend/internal/domain"
)

// Directory — in-memory реализация read-side коннектора модулей: справочник
// групп и пользователей плюс файловое хранилище. Заявки читает из общего Store.
type Directory struct {
	store *Store

	mu    sync.RWMutex
	bands map[string]domain.BandData
	users map[string]domain.UserData
	files map[string][]byte
}

// NewDirectory создаёт пустой справочник поверх хранилища агрегатов.
func NewDirectory(store *Store) *Directory {
	return &Directory{
		store: store,
		bands: make(map[string]domain.BandData),
		users: make(map[string]domain.UserData),
		files: make(map[string][]byte),
	}
}

// AddBand регистрирует группу в справочнике.
func (d *Directory) AddBand(band domain.BandData) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bands[band.ID] = band
}

// AddUser регистрирует пользователя в справочнике.
func (d *Directory) AddUser(user domain.UserData) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.ID] = user
}

// ObtainBandMembers возвращает идентификаторы участников группы.
func (d *Directory) ObtainBandMembers(bandID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	band, ok := d.bands[bandID]
	if !ok {
		return nil, fmt.Errorf("%w: band_id=%s", domain.ErrBandNotFound, bandID)
	}
	members := make([]string, len(band.Members))
	copy(members, band.Members)
	return members, nil
}

// GetBookingByContractID возвращает плоское представление заявки по контракту.
func (d *Directory) GetBookingByContractID(contractID string) (domain.BookingPrimitives, error) {
	booking, err := d.store.Bookings().GetByContractID(contractID)
	if err != nil {
		return domain.BookingPrimitives{}, err
	}
	return booking.ToPrimitives(), nil
}

// GetBandByID возвращает данные группы.
func (d *Directory) GetBandByID(bandID string) (domain.BandData, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	band, ok := d.bands[bandID]
	if !ok {
		return domain.BandData{}, fmt.Errorf("%w: band_id=%s", domain.ErrBandNotFound, bandID)
	}
	return band, nil
}

// ObtainUserInformation возвращает данные пользователя.
func (d *Directory) ObtainUserInformation(userID string) (domain.UserData, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[userID]
	if !ok {
		return domain.UserData{}, fmt.Errorf("%w: user_id=%s", domain.ErrUserNotFound, userID)
	}
	return user, nil
}

// StoreFile сохраняет отрисованный документ.
func (d *Directory) StoreFile(name string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	d.files[name] = stored
	return nil
}

// StoredFile возвращает сохранённый документ (для тестов и отладки).
func (d *Directory) StoredFile(name string) ([]byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, ok := d.files[name]
	return data, ok
}

var _ domain.ModuleConnector = (*Directory)(nil)
