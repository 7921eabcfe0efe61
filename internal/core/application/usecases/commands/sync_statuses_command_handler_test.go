package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/dispatch"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSyncStatusesCommandHandler_Handle_RepairsDriftWithoutNotifying(t *testing.T) {
	ctx := t.Context()

	// Stored status says assigned, but every driver already finished: the
	// event path missed the transition and the sweep must repair it.
	drifted, _ := restoreTestDispatch(t, dispatch.Assigned,
		dispatch.Completed, dispatch.Completed)

	listRepo := new(MockDispatchRepository)
	listRepo.On("GetAllInStatuses", mock.Anything,
		[]dispatch.Status{dispatch.Assigned, dispatch.InProgress}).
		Return([]*dispatch.Dispatch{drifted}, nil).Once()
	listUoW := new(MockReconcileUoW)
	listUoW.On("DispatchRepository").Return(listRepo).Once()

	syncRepo := new(MockDispatchRepository)
	syncRepo.On("Get", mock.Anything, drifted.ID()).Return(drifted, nil).Once()
	syncRepo.On("Update", mock.Anything, drifted).Return(nil).Once()
	assignmentRepo := new(MockAssignmentRepository)
	assignmentRepo.On("UpdateStatusByDispatchID", mock.Anything, drifted.ID(), dispatch.Completed).
		Return(nil).Once()

	syncUoW := new(MockReconcileUoW)
	syncUoW.On("Begin", ctx).Return(nil).Once()
	syncUoW.On("DispatchRepository").Return(syncRepo)
	syncUoW.On("AssignmentRepository").Return(assignmentRepo).Once()
	syncUoW.On("Commit", ctx).Return(nil).Once()
	syncUoW.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockReconcileUoWFactory)
	factory.On("Create").Return(listUoW).Once()
	factory.On("Create").Return(syncUoW).Once()

	h := commands.NewSyncStatusesCommandHandler(factory, testLogger())
	repaired, err := h.Handle(ctx, commands.NewSyncStatusesCommand())
	require.NoError(t, err)

	require.Equal(t, 1, repaired)
	require.Equal(t, dispatch.Completed, drifted.Status())

	// Repair never re-notifies.
	listUoW.AssertNotCalled(t, "NotificationRepository")
	syncUoW.AssertNotCalled(t, "NotificationRepository")
	factory.AssertExpectations(t)
}

func TestSyncStatusesCommandHandler_Handle_ConsistentDispatchesUntouched(t *testing.T) {
	ctx := t.Context()

	consistent, _ := restoreTestDispatch(t, dispatch.InProgress,
		dispatch.InProgress, dispatch.Completed)

	listRepo := new(MockDispatchRepository)
	listRepo.On("GetAllInStatuses", mock.Anything,
		[]dispatch.Status{dispatch.Assigned, dispatch.InProgress}).
		Return([]*dispatch.Dispatch{consistent}, nil).Once()
	listUoW := new(MockReconcileUoW)
	listUoW.On("DispatchRepository").Return(listRepo).Once()

	syncRepo := new(MockDispatchRepository)
	syncRepo.On("Get", mock.Anything, consistent.ID()).Return(consistent, nil).Once()
	syncUoW := new(MockReconcileUoW)
	syncUoW.On("Begin", ctx).Return(nil).Once()
	syncUoW.On("DispatchRepository").Return(syncRepo).Once()
	syncUoW.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockReconcileUoWFactory)
	factory.On("Create").Return(listUoW).Once()
	factory.On("Create").Return(syncUoW).Once()

	h := commands.NewSyncStatusesCommandHandler(factory, testLogger())
	repaired, err := h.Handle(ctx, commands.NewSyncStatusesCommand())
	require.NoError(t, err)

	require.Equal(t, 0, repaired)
	syncRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	syncUoW.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestSyncStatusesCommandHandler_Handle_OneFailureDoesNotStopSweep(t *testing.T) {
	ctx := t.Context()

	broken, _ := restoreTestDispatch(t, dispatch.Assigned, dispatch.Completed)
	drifted, _ := restoreTestDispatch(t, dispatch.Assigned, dispatch.Completed)

	listRepo := new(MockDispatchRepository)
	listRepo.On("GetAllInStatuses", mock.Anything,
		[]dispatch.Status{dispatch.Assigned, dispatch.InProgress}).
		Return([]*dispatch.Dispatch{broken, drifted}, nil).Once()
	listUoW := new(MockReconcileUoW)
	listUoW.On("DispatchRepository").Return(listRepo).Once()

	brokenUoW := new(MockReconcileUoW)
	brokenUoW.On("Begin", ctx).Return(errors.New("connection reset")).Once()

	syncRepo := new(MockDispatchRepository)
	syncRepo.On("Get", mock.Anything, drifted.ID()).Return(drifted, nil).Once()
	syncRepo.On("Update", mock.Anything, drifted).Return(nil).Once()
	assignmentRepo := new(MockAssignmentRepository)
	assignmentRepo.On("UpdateStatusByDispatchID", mock.Anything, drifted.ID(), dispatch.Completed).
		Return(nil).Once()

	syncUoW := new(MockReconcileUoW)
	syncUoW.On("Begin", ctx).Return(nil).Once()
	syncUoW.On("DispatchRepository").Return(syncRepo)
	syncUoW.On("AssignmentRepository").Return(assignmentRepo).Once()
	syncUoW.On("Commit", ctx).Return(nil).Once()
	syncUoW.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockReconcileUoWFactory)
	factory.On("Create").Return(listUoW).Once()
	factory.On("Create").Return(brokenUoW).Once()
	factory.On("Create").Return(syncUoW).Once()

	h := commands.NewSyncStatusesCommandHandler(factory, testLogger())
	repaired, err := h.Handle(ctx, commands.NewSyncStatusesCommand())
	require.NoError(t, err)
	require.Equal(t, 1, repaired)
}

func TestSyncStatusesCommandHandler_Handle_ListError(t *testing.T) {
	ctx := t.Context()

	listRepo := new(MockDispatchRepository)
	listRepo.On("GetAllInStatuses", mock.Anything, mock.Anything).
		Return(nil, errors.New("query failed")).Once()
	listUoW := new(MockReconcileUoW)
	listUoW.On("DispatchRepository").Return(listRepo).Once()

	factory := new(MockReconcileUoWFactory)
	factory.On("Create").Return(listUoW).Once()

	h := commands.NewSyncStatusesCommandHandler(factory, testLogger())
	_, err := h.Handle(ctx, commands.NewSyncStatusesCommand())
	require.Error(t, err)
}
