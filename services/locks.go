package services

import "sync"

// StageLocks сериализует операции по этапу: подтверждение групп, удаление
// этапа, запись результатов. Инстанс ОДИН на процесс и делится между
// StageService и MatchService, иначе структурная мутация и запись результата
// не исключают друг друга. Блокировка внутрипроцессная; несколько инстансов
// движка делят одну БД только через транзакции.
type StageLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewStageLocks() *StageLocks {
	return &StageLocks{locks: make(map[int]*sync.Mutex)}
}

func (s *StageLocks) lock(stageID int) func() {
	s.mu.Lock()
	m, ok := s.locks[stageID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[stageID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
