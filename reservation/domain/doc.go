// Package domain define contratos e tipos de domínio da reserva de assentos.
//
// Este pacote não guarda estado concreto nem depende de infraestrutura.
// A intenção é permitir testes de unidade puros e desacoplar o protocolo de
// reserva (application) dos detalhes de sincronização e armazenamento (infra).
package domain
