package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// validationRepositoryInMemory хранит записи валидации в памяти.
// Записи по заказу накапливаются: каждая валидация — новая строка истории.
type validationRepositoryInMemory struct {
	mu      sync.RWMutex
	items   map[string]domain.OrderValidation
	byOrder map[string][]string
}

// NewValidationRepository создаёт in-memory реализацию ValidationRepository.
func NewValidationRepository() domain.ValidationRepository {
	return &validationRepositoryInMemory{
		items:   make(map[string]domain.OrderValidation),
		byOrder: make(map[string][]string),
	}
}

// Create сохраняет запись валидации и добавляет её в историю заказа.
func (r *validationRepositoryInMemory) Create(validation domain.OrderValidation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[validation.ID] = validation
	r.byOrder[validation.OrderID] = append(r.byOrder[validation.OrderID], validation.ID)
	return nil
}

// Get возвращает запись валидации или ErrValidationNotFound.
func (r *validationRepositoryInMemory) Get(id string) (domain.OrderValidation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	validation, ok := r.items[id]
	if !ok {
		return domain.OrderValidation{}, domain.ErrValidationNotFound
	}
	return validation, nil
}

// ListByOrder возвращает историю валидаций заказа в хронологическом порядке.
func (r *validationRepositoryInMemory) ListByOrder(orderID string) ([]domain.OrderValidation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOrder[orderID]
	result := make([]domain.OrderValidation, 0, len(ids))
	for _, id := range ids {
		if validation, ok := r.items[id]; ok {
			result = append(result, validation)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

var _ domain.ValidationRepository = (*validationRepositoryInMemory)(nil)
