package repository

import "context"

// TxRepos agrupa los repositorios atados a una misma unidad de trabajo.
// Todo lo escrito a través de ellos se confirma o se descarta junto.
type TxRepos struct {
	Products      ProductRepository
	Sales         SaleRepository
	History       InventoryHistoryRepository
	Alerts        AlertRepository
	Offers        OfferRepository
	ProductOffers ProductOfferRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback en
// cualquier otro caso (error, panic o cancelación del contexto). La conexión se libera siempre.
// fn puede ejecutarse más de una vez si la base de datos pide reintentar (serialización o
// deadlock), por lo que debe reconstruir su estado desde cero en cada llamada.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
