package contract

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/auth"
	"github.com/bandbridge/backend/internal/domain"
	"github.com/bandbridge/backend/internal/eventbus"
)

// Service описывает операции над контрактами.
type Service interface {
	// Sign ставит подпись стороны договора. Клиент подписывает как
	// владелец заявки, участник группы — за группу. Когда после подписи
	// контракт подписан обеими сторонами, публикуется ContractSigned.
	Sign(ctx context.Context, actor auth.Actor, contractID string) (domain.Contract, error)
	Get(ctx context.Context, actor auth.Actor, contractID string) (domain.Contract, error)
	GetByBookingID(ctx context.Context, actor auth.Actor, bookingID string) (domain.Contract, error)
}

type service struct {
	contracts domain.ContractRepository
	connector domain.ModuleConnector
	bus       eventbus.Publisher
	logger    *log.Entry

	signGuard auth.Guard
	readGuard auth.Guard
}

var _ Service = (*service)(nil)

// NewService создаёт сервис контрактов.
func NewService(
	contracts domain.ContractRepository,
	connector domain.ModuleConnector,
	bus eventbus.Publisher,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "contract-service")
	}
	return &service{
		contracts: contracts,
		connector: connector,
		bus:       bus,
		logger:    logger,

		signGuard: auth.Allow(auth.RoleClient, auth.RoleBandMember, auth.RoleAdmin),
		readGuard: auth.Allow(auth.RoleClient, auth.RoleBandMember, auth.RoleAdmin),
	}
}

func (s *service) Sign(ctx context.Context, actor auth.Actor, contractID string) (domain.Contract, error) {
	if err := s.signGuard(actor); err != nil {
		return domain.Contract{}, err
	}

	contract, err := s.contracts.Get(contractID)
	if err != nil {
		return domain.Contract{}, err
	}
	booking, err := s.connector.GetBookingByContractID(contractID)
	if err != nil {
		return domain.Contract{}, err
	}

	switch actor.Role {
	case auth.RoleClient:
		if booking.UserID != actor.UserID {
			return domain.Contract{}, fmt.Errorf("%w: user_id=%s booking_id=%s",
				domain.ErrNotBookingOwner, actor.UserID, booking.ID)
		}
		err = contract.SignByClient()
	case auth.RoleBandMember:
		if err := s.verifyBandMembership(actor, booking.BandID); err != nil {
			return domain.Contract{}, err
		}
		err = contract.SignByBand()
	case auth.RoleAdmin:
		// Администратор дозаполняет недостающую подпись.
		if !contract.SignedByClient {
			err = contract.SignByClient()
		} else {
			err = contract.SignByBand()
		}
	}
	if err != nil {
		return domain.Contract{}, err
	}

	if err := s.contracts.Save(contract); err != nil {
		return domain.Contract{}, fmt.Errorf("%w: %v", domain.ErrUnableToUpdateContract, err)
	}

	s.logger.WithFields(log.Fields{
		"contract_id":      contract.ID,
		"signed_by_client": contract.SignedByClient,
		"signed_by_band":   contract.SignedByBand,
	}).Info("contract signed")

	if contract.FullySigned() {
		s.publish(ctx, domain.NewContractSignedEvent(contract.ID))
	}
	return contract, nil
}

func (s *service) Get(_ context.Context, actor auth.Actor, contractID string) (domain.Contract, error) {
	if err := s.readGuard(actor); err != nil {
		return domain.Contract{}, err
	}
	return s.contracts.Get(contractID)
}

func (s *service) GetByBookingID(_ context.Context, actor auth.Actor, bookingID string) (domain.Contract, error) {
	if err := s.readGuard(actor); err != nil {
		return domain.Contract{}, err
	}
	return s.contracts.GetByBookingID(bookingID)
}

func (s *service) verifyBandMembership(actor auth.Actor, bandID string) error {
	members, err := s.connector.ObtainBandMembers(bandID)
	if err != nil {
		return err
	}
	for _, member := range members {
		if member == actor.UserID {
			return nil
		}
	}
	return fmt.Errorf("%w: user_id=%s band_id=%s", domain.ErrNotBandMember, actor.UserID, bandID)
}

func (s *service) publish(ctx context.Context, event domain.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": event.EventType(),
			"subject_id": event.SubjectID(),
		}).Error("failed to publish domain event")
	}
}
