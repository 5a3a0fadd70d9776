package repo

import "github.com/rogerio-castellano/product-catalog/internal/models"

func seedProduct(id, name, description, logo, release string) models.Product {
	return models.Product{
		ID:          id,
		Name:        name,
		Description: description,
		Logo:        logo,
		DateRelease: models.MustParseDate(release),
	}.WithRevision()
}

const logoBase = "https://www.visa.com.ec/dam/VCOM/regional/lac/SPA/Default/Pay%20With%20Visa/Tarjetas/"

// SeedProducts returns the demo catalog used by the in-memory repository.
func SeedProducts() []models.Product {
	return []models.Product{
		seedProduct("trj-crd-01", "Tarjeta de Crédito Oro", "Tarjeta de crédito con beneficios exclusivos y programa de recompensas", logoBase+"Background%20Rosa.png", "2024-01-15"),
		seedProduct("trj-deb-02", "Tarjeta de Débito Classic", "Tarjeta de débito para uso diario con acceso a cajeros automáticos", logoBase+"Background%20Azul.png", "2024-02-20"),
		seedProduct("cta-aho-03", "Cuenta de Ahorros Premium", "Cuenta de ahorros con tasa de interés preferencial y sin costo de mantenimiento", logoBase+"Background%20Verde.png", "2024-03-10"),
		seedProduct("cdt-inv-04", "CDT Inversión Segura", "Certificado de depósito a término con rentabilidad garantizada", logoBase+"Background%20Naranja.png", "2024-04-05"),
		seedProduct("seg-vid-05", "Seguro de Vida Familiar", "Seguro de vida con cobertura completa para toda la familia", logoBase+"Background%20Morado.png", "2024-05-01"),
		seedProduct("crd-emp-06", "Crédito Empresarial", "Línea de crédito para pequeñas y medianas empresas con tasas competitivas", logoBase+"Background%20Rosa.png", "2024-06-15"),
		seedProduct("hip-viv-07", "Crédito Hipotecario", "Financiamiento para compra de vivienda con plazos flexibles hasta 20 años", logoBase+"Background%20Azul.png", "2024-07-20"),
	}
}
