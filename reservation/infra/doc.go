// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - SeatMap: monitor por sala (mutex + canal de broadcast com espera limitada)
//   - Schedule / ReservationLog: registro imutável de sessões e log append-only por sala
//   - ChanPool / WeightedPool: semáforo de admissão global
//   - HolderBudgets: token bucket por titular, uma ficha por assento (golang.org/x/time/rate)
//   - stats em memória, Redis e OpenTelemetry; AsyncStatsStore e AsyncSink (fila que descarta
//     quando cheia) e AMQPPublisher para reservas
package infra
