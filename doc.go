// Package searchprovider fulfils a commerce platform's search provider contract
// (index, remove, search and delete-index over named document types) with the
// Algolia hosted search service.
//
// Each document type maps to one master index named "<scope>-<documentType>".
// Sorted searches run against presorted replica indexes configured through the
// platform setting "Search.AlgoliaSearch.SortReplicas" and fall back to the
// master index when the replica does not exist.
//
//	p, err := searchprovider.New(
//	    searchprovider.WithAlgolia("APPID", "api-key"),
//	    searchprovider.WithScope("default"),
//	    searchprovider.WithSettings(settings),
//	    searchprovider.WithLogger(logger),
//	)
//	res, err := p.Index(ctx, "product", docs)
//	found, err := p.Search(ctx, "product", &model.SearchRequest{SearchKeywords: "shirt", Take: 20})
package searchprovider
