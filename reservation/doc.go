// Package reservation é o motor de reserva de assentos para um complexo com várias salas.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (ids, Reservation, erros/Outcome, SeatMap, SlotPool)
//   - application: casos de uso (BookingService, admissão, throttle, grupo, inspeção)
//   - infra: implementações concretas (mapa de assentos, agenda, pools, stats, sinks)
//   - reservation (este pacote): Config validada + wiring + superfície em processo (Engine)
//
// Fluxo de uma reserva:
//
//   1) Resolve a sessão e a sala; rejeita entrada inválida ou sessão já começada
//   2) Adquire uma vaga de admissão global (até MaxWait)
//   3) Tenta o commit atômico na sala; se ocupado, espera mudança ou RetryInterval
//   4) No commit, registra no log da sala e publica no sink; libera a vaga sempre
//
// O binário cmd/cinema-sim monta um Engine a partir de variáveis de ambiente
// (ADMISSION_LIMIT, RETRY_INTERVAL, STATS_REDIS_ADDR, AMQP_URL, ...).
package reservation
