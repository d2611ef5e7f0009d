// Package gameapimock is a hand-maintained mock of gameapi.Client, written
// in the gomock generated-code shape (MockX / MockXMockRecorder / EXPECT())
// so executor and scheduler tests can set per-call expectations without a
// real HTTP collaborator.
package gameapimock

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi"
)

// MockClient is a mock of gameapi.Client.
type MockClient struct {
	ctrl     *gomock.Controller
	recorder *MockClientMockRecorder
}

// MockClientMockRecorder is the mock recorder for MockClient.
type MockClientMockRecorder struct {
	mock *MockClient
}

// NewMockClient creates a new mock instance.
func NewMockClient(ctrl *gomock.Controller) *MockClient {
	mock := &MockClient{ctrl: ctrl}
	mock.recorder = &MockClientMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockClient) EXPECT() *MockClientMockRecorder {
	return m.recorder
}

func (m *MockClient) GetCharacter(ctx context.Context, name string) (*character.Snapshot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetCharacter", ctx, name)
	ret0, _ := ret[0].(*character.Snapshot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) GetCharacter(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetCharacter", reflect.TypeOf((*MockClient)(nil).GetCharacter), ctx, name)
}

func (m *MockClient) Move(ctx context.Context, name string, x, y int) (*gameapi.MoveOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Move", ctx, name, x, y)
	ret0, _ := ret[0].(*gameapi.MoveOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) Move(ctx, name, x, y any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Move", reflect.TypeOf((*MockClient)(nil).Move), ctx, name, x, y)
}

func (m *MockClient) Fight(ctx context.Context, name string) (*gameapi.FightOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Fight", ctx, name)
	ret0, _ := ret[0].(*gameapi.FightOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) Fight(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Fight", reflect.TypeOf((*MockClient)(nil).Fight), ctx, name)
}

func (m *MockClient) Gather(ctx context.Context, name string) (*gameapi.GatherOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Gather", ctx, name)
	ret0, _ := ret[0].(*gameapi.GatherOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) Gather(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Gather", reflect.TypeOf((*MockClient)(nil).Gather), ctx, name)
}

func (m *MockClient) Rest(ctx context.Context, name string) (*gameapi.ActionOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Rest", ctx, name)
	ret0, _ := ret[0].(*gameapi.ActionOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) Rest(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Rest", reflect.TypeOf((*MockClient)(nil).Rest), ctx, name)
}

func (m *MockClient) Equip(ctx context.Context, name, code string, slot catalog.EquipSlot, quantity int) (*gameapi.EquipOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Equip", ctx, name, code, slot, quantity)
	ret0, _ := ret[0].(*gameapi.EquipOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) Equip(ctx, name, code, slot, quantity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Equip", reflect.TypeOf((*MockClient)(nil).Equip), ctx, name, code, slot, quantity)
}

func (m *MockClient) Unequip(ctx context.Context, name string, slot catalog.EquipSlot, quantity int) (*gameapi.EquipOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Unequip", ctx, name, slot, quantity)
	ret0, _ := ret[0].(*gameapi.EquipOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) Unequip(ctx, name, slot, quantity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Unequip", reflect.TypeOf((*MockClient)(nil).Unequip), ctx, name, slot, quantity)
}

func (m *MockClient) UseItem(ctx context.Context, name, code string, quantity int) (*gameapi.ActionOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UseItem", ctx, name, code, quantity)
	ret0, _ := ret[0].(*gameapi.ActionOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) UseItem(ctx, name, code, quantity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UseItem", reflect.TypeOf((*MockClient)(nil).UseItem), ctx, name, code, quantity)
}

func (m *MockClient) Craft(ctx context.Context, name, code string, quantity int) (*gameapi.CraftOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Craft", ctx, name, code, quantity)
	ret0, _ := ret[0].(*gameapi.CraftOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) Craft(ctx, name, code, quantity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Craft", reflect.TypeOf((*MockClient)(nil).Craft), ctx, name, code, quantity)
}

func (m *MockClient) Recycle(ctx context.Context, name, code string, quantity int) (*gameapi.CraftOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Recycle", ctx, name, code, quantity)
	ret0, _ := ret[0].(*gameapi.CraftOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) Recycle(ctx, name, code, quantity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Recycle", reflect.TypeOf((*MockClient)(nil).Recycle), ctx, name, code, quantity)
}

func (m *MockClient) AcceptTask(ctx context.Context, name string, taskType character.TaskType) (*gameapi.TaskOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AcceptTask", ctx, name, taskType)
	ret0, _ := ret[0].(*gameapi.TaskOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) AcceptTask(ctx, name, taskType any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AcceptTask", reflect.TypeOf((*MockClient)(nil).AcceptTask), ctx, name, taskType)
}

func (m *MockClient) CompleteTask(ctx context.Context, name string) (*gameapi.TaskOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CompleteTask", ctx, name)
	ret0, _ := ret[0].(*gameapi.TaskOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) CompleteTask(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CompleteTask", reflect.TypeOf((*MockClient)(nil).CompleteTask), ctx, name)
}

func (m *MockClient) CancelTask(ctx context.Context, name string) (*gameapi.TaskOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CancelTask", ctx, name)
	ret0, _ := ret[0].(*gameapi.TaskOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) CancelTask(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CancelTask", reflect.TypeOf((*MockClient)(nil).CancelTask), ctx, name)
}

func (m *MockClient) TaskExchange(ctx context.Context, name string) (*gameapi.ExchangeOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TaskExchange", ctx, name)
	ret0, _ := ret[0].(*gameapi.ExchangeOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) TaskExchange(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TaskExchange", reflect.TypeOf((*MockClient)(nil).TaskExchange), ctx, name)
}

func (m *MockClient) TaskTrade(ctx context.Context, name, code string, quantity int) (*gameapi.TaskOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TaskTrade", ctx, name, code, quantity)
	ret0, _ := ret[0].(*gameapi.TaskOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) TaskTrade(ctx, name, code, quantity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TaskTrade", reflect.TypeOf((*MockClient)(nil).TaskTrade), ctx, name, code, quantity)
}

func (m *MockClient) DepositBank(ctx context.Context, name, code string, quantity int) (*gameapi.BankOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DepositBank", ctx, name, code, quantity)
	ret0, _ := ret[0].(*gameapi.BankOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) DepositBank(ctx, name, code, quantity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DepositBank", reflect.TypeOf((*MockClient)(nil).DepositBank), ctx, name, code, quantity)
}

func (m *MockClient) WithdrawBank(ctx context.Context, name, code string, quantity int) (*gameapi.BankOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WithdrawBank", ctx, name, code, quantity)
	ret0, _ := ret[0].(*gameapi.BankOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) WithdrawBank(ctx, name, code, quantity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WithdrawBank", reflect.TypeOf((*MockClient)(nil).WithdrawBank), ctx, name, code, quantity)
}

func (m *MockClient) DepositGold(ctx context.Context, name string, amount int) (*gameapi.BankOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DepositGold", ctx, name, amount)
	ret0, _ := ret[0].(*gameapi.BankOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) DepositGold(ctx, name, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DepositGold", reflect.TypeOf((*MockClient)(nil).DepositGold), ctx, name, amount)
}

func (m *MockClient) WithdrawGold(ctx context.Context, name string, amount int) (*gameapi.BankOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WithdrawGold", ctx, name, amount)
	ret0, _ := ret[0].(*gameapi.BankOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) WithdrawGold(ctx, name, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WithdrawGold", reflect.TypeOf((*MockClient)(nil).WithdrawGold), ctx, name, amount)
}

func (m *MockClient) GetItems(ctx context.Context) ([]catalog.Item, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetItems", ctx)
	ret0, _ := ret[0].([]catalog.Item)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) GetItems(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetItems", reflect.TypeOf((*MockClient)(nil).GetItems), ctx)
}

func (m *MockClient) GetMonsters(ctx context.Context) ([]catalog.Monster, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetMonsters", ctx)
	ret0, _ := ret[0].([]catalog.Monster)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) GetMonsters(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetMonsters", reflect.TypeOf((*MockClient)(nil).GetMonsters), ctx)
}

func (m *MockClient) GetResources(ctx context.Context) ([]catalog.Resource, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetResources", ctx)
	ret0, _ := ret[0].([]catalog.Resource)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) GetResources(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetResources", reflect.TypeOf((*MockClient)(nil).GetResources), ctx)
}

func (m *MockClient) GetMaps(ctx context.Context) ([]gameapi.MapLocation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetMaps", ctx)
	ret0, _ := ret[0].([]gameapi.MapLocation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) GetMaps(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetMaps", reflect.TypeOf((*MockClient)(nil).GetMaps), ctx)
}

func (m *MockClient) GetTaskRewards(ctx context.Context) ([]gameapi.TaskReward, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTaskRewards", ctx)
	ret0, _ := ret[0].([]gameapi.TaskReward)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) GetTaskRewards(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTaskRewards", reflect.TypeOf((*MockClient)(nil).GetTaskRewards), ctx)
}

func (m *MockClient) GetBankItems(ctx context.Context) ([]gameapi.ItemStack, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBankItems", ctx)
	ret0, _ := ret[0].([]gameapi.ItemStack)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) GetBankItems(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBankItems", reflect.TypeOf((*MockClient)(nil).GetBankItems), ctx)
}

func (m *MockClient) GetAccountDetails(ctx context.Context) (*gameapi.AccountDetails, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetAccountDetails", ctx)
	ret0, _ := ret[0].(*gameapi.AccountDetails)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) GetAccountDetails(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetAccountDetails", reflect.TypeOf((*MockClient)(nil).GetAccountDetails), ctx)
}

func (m *MockClient) GetAccountAchievements(ctx context.Context) ([]gameapi.Achievement, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetAccountAchievements", ctx)
	ret0, _ := ret[0].([]gameapi.Achievement)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockClientMockRecorder) GetAccountAchievements(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetAccountAchievements", reflect.TypeOf((*MockClient)(nil).GetAccountAchievements), ctx)
}

var _ gameapi.Client = (*MockClient)(nil)
