package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"placepulse/background-worker-service/internal/app/background-worker/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===================== NewCronScheduler Tests =====================

func TestNewCronScheduler(t *testing.T) {
	// Arrange
	mockSvc := new(mocks.MockEventProcessingService)

	// Act
	scheduler := NewCronScheduler(mockSvc)

	// Assert
	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, mockSvc, scheduler.eventSvc)
}

// ===================== Start Tests =====================

func TestCronScheduler_Start_Success(t *testing.T) {
	// Arrange
	mockSvc := new(mocks.MockEventProcessingService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()

	// Act
	err := scheduler.Start(ctx, "0 */5 * * * *") // Каждые 5 минут

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1) // Одна задача добавлена

	// Cleanup
	scheduler.Stop()
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	// Arrange
	mockSvc := new(mocks.MockEventProcessingService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()

	// Act
	err := scheduler.Start(ctx, "invalid cron expression")

	// Assert
	assert.Error(t, err)
}

// ===================== Stop Tests =====================

func TestCronScheduler_Stop(t *testing.T) {
	// Arrange
	mockSvc := new(mocks.MockEventProcessingService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()
	scheduler.Start(ctx, "0 */5 * * * *")

	// Act
	scheduler.Stop()

	// Assert - cron остановлен без паники
	assert.NotNil(t, scheduler.cron)
}

// ===================== GetEntries Tests =====================

func TestCronScheduler_GetEntries_Empty(t *testing.T) {
	// Arrange
	mockSvc := new(mocks.MockEventProcessingService)
	scheduler := NewCronScheduler(mockSvc)

	// Act
	entries := scheduler.GetEntries()

	// Assert
	assert.Empty(t, entries)
}

// ===================== Cron Job Execution Tests =====================

func TestCronScheduler_JobExecution(t *testing.T) {
	// Тестируем что cron job вызывает RunStatsSweep
	// Arrange
	mockSvc := new(mocks.MockEventProcessingService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()

	mockSvc.On("RunStatsSweep", mock.Anything).Return(nil)

	// Используем @every для быстрого теста
	err := scheduler.Start(ctx, "@every 100ms")
	assert.NoError(t, err)

	// Ждём выполнения cron job
	time.Sleep(350 * time.Millisecond)

	// Cleanup
	scheduler.Stop()

	// Assert - должно быть минимум 2 срабатывания
	assert.GreaterOrEqual(t, len(mockSvc.Calls), 2)
}

func TestCronScheduler_JobExecution_WithError(t *testing.T) {
	// Cron job продолжает работать даже при ошибках sweep
	// Arrange
	mockSvc := new(mocks.MockEventProcessingService)
	scheduler := NewCronScheduler(mockSvc)

	ctx := context.Background()

	mockSvc.On("RunStatsSweep", mock.Anything).Return(errors.New("sweep failed"))

	err := scheduler.Start(ctx, "@every 100ms")
	assert.NoError(t, err)

	time.Sleep(350 * time.Millisecond)

	scheduler.Stop()

	// Assert - несмотря на ошибки, вызовы продолжаются
	assert.GreaterOrEqual(t, len(mockSvc.Calls), 2)
}
