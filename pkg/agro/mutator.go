package agro

import (
	"context"
)

// Mutator wraps the write operations of a Client. On success it invalidates
// the mutated resource family in the QueryStore and emits a success
// notification; on failure it emits a failure notification with the error
// message and leaves the cache untouched. The only client-side validation is
// required-field presence on create payloads.
type Mutator struct {
	client   Client
	store    *QueryStore
	notifier Notifier
}

// NewMutator creates a mutator over the given client, store, and notifier.
func NewMutator(client Client, store *QueryStore, notifier Notifier) *Mutator {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Mutator{client: client, store: store, notifier: notifier}
}

// finish applies the shared success/failure policy for one mutation.
func (m *Mutator) finish(ctx context.Context, family Family, err error, successMsg, errorMsg string) error {
	if err != nil {
		m.notifier.Error(errorMsg, err.Error())

		return err
	}

	m.store.Invalidate(ctx, family)
	m.notifier.Success(successMsg)

	return nil
}

// CreateSeedRequest validates required fields and creates a seed request.
func (m *Mutator) CreateSeedRequest(ctx context.Context, request *SeedRequestCreate) (*SeedRequest, error) {
	if err := request.Validate(); err != nil {
		m.notifier.Error("Erro ao criar solicitação", err.Error())

		return nil, err
	}

	created, err := m.client.SeedRequests().Create(ctx, request)

	if finishErr := m.finish(ctx, FamilySeedRequests, err,
		"Solicitação criada com sucesso!", "Erro ao criar solicitação"); finishErr != nil {
		return nil, finishErr
	}

	return created, nil
}

// UpdateSeedRequest patches a seed request.
func (m *Mutator) UpdateSeedRequest(ctx context.Context, id int, request *SeedRequestUpdate) (*SeedRequest, error) {
	updated, err := m.client.SeedRequests().Update(ctx, id, request)

	if finishErr := m.finish(ctx, FamilySeedRequests, err,
		"Solicitação atualizada com sucesso!", "Erro ao atualizar solicitação"); finishErr != nil {
		return nil, finishErr
	}

	return updated, nil
}

// DeleteSeedRequest deletes a seed request.
func (m *Mutator) DeleteSeedRequest(ctx context.Context, id int) error {
	err := m.client.SeedRequests().Delete(ctx, id)

	return m.finish(ctx, FamilySeedRequests, err,
		"Solicitação excluída com sucesso!", "Erro ao excluir solicitação")
}

// ApproveSeedRequest approves a seed request.
func (m *Mutator) ApproveSeedRequest(ctx context.Context, id int) (*SeedRequest, error) {
	approved, err := m.client.SeedRequests().Approve(ctx, id)

	if finishErr := m.finish(ctx, FamilySeedRequests, err,
		"Solicitação aprovada!", "Erro ao aprovar solicitação"); finishErr != nil {
		return nil, finishErr
	}

	return approved, nil
}

// RejectSeedRequest rejects a seed request with an optional reason.
func (m *Mutator) RejectSeedRequest(ctx context.Context, id int, reason string) (*SeedRequest, error) {
	rejected, err := m.client.SeedRequests().Reject(ctx, id, reason)

	if finishErr := m.finish(ctx, FamilySeedRequests, err,
		"Solicitação rejeitada.", "Erro ao rejeitar solicitação"); finishErr != nil {
		return nil, finishErr
	}

	return rejected, nil
}

// MarkDelivered marks an approved seed request as delivered.
func (m *Mutator) MarkDelivered(ctx context.Context, id int) (*SeedRequest, error) {
	delivered, err := m.client.SeedRequests().MarkDelivered(ctx, id)

	if finishErr := m.finish(ctx, FamilySeedRequests, err,
		"Solicitação marcada como entregue!", "Erro ao marcar como entregue"); finishErr != nil {
		return nil, finishErr
	}

	return delivered, nil
}

// StartRoute moves a pending route to in_progress.
func (m *Mutator) StartRoute(ctx context.Context, id int) (*DeliveryRoute, error) {
	route, err := m.client.DeliveryRoutes().Start(ctx, id)

	if finishErr := m.finish(ctx, FamilyDeliveryRoutes, err,
		"Rota iniciada!", "Erro ao iniciar rota"); finishErr != nil {
		return nil, finishErr
	}

	return route, nil
}

// CompleteRoute moves an in_progress route to completed.
func (m *Mutator) CompleteRoute(ctx context.Context, id int) (*DeliveryRoute, error) {
	route, err := m.client.DeliveryRoutes().Complete(ctx, id)

	if finishErr := m.finish(ctx, FamilyDeliveryRoutes, err,
		"Rota concluída!", "Erro ao concluir rota"); finishErr != nil {
		return nil, finishErr
	}

	return route, nil
}

// UpdateAgentLocation reports an agent's current position.
func (m *Mutator) UpdateAgentLocation(ctx context.Context, id int, lat, lng float64) (*Agent, error) {
	if err := (Coordinates{Lat: lat, Lng: lng}).Validate(); err != nil {
		m.notifier.Error("Erro ao atualizar localização", err.Error())

		return nil, err
	}

	agent, err := m.client.Agents().UpdateLocation(ctx, id, lat, lng)

	if finishErr := m.finish(ctx, FamilyAgents, err,
		"Localização atualizada.", "Erro ao atualizar localização"); finishErr != nil {
		return nil, finishErr
	}

	return agent, nil
}
