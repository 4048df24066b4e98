package seed

import "dog-breed-social/internal/domain/breeds"

// Breeds es el catálogo inicial. migrations/0002_seed_breeds.up.sql carga los mismos datos.
func Breeds() []breeds.Breed {
	return []breeds.Breed{
		{
			ID:           1,
			Name:         "Labrador Retriever",
			Description:  "A friendly, intelligent and energetic large dog. Labradors come from Newfoundland, where they were first bred to help fishermen haul nets.",
			Image:        "/breeds/labrador-retriever.jpg",
			Category:     breeds.CategoryLarge,
			Personality:  []string{"friendly", "smart", "active"},
			Stats:        breeds.Stats{Friendliness: 5, EnergyLevel: 5, Trainability: 5, GroomingNeeds: 3, Adaptability: 4},
			History:      "The breed traces back to early 19th century Newfoundland, where the St. John's water dog worked alongside fishermen.",
			CareNeeds:    "Lots of daily exercise, weekly brushing and regular ear cleaning.",
			HealthIssues: "Hip and elbow dysplasia, progressive retinal atrophy.",
			FunFacts:     []string{"One of the most popular guide dog breeds", "Excellent swimmers with a water-resistant coat", "Usually live 10 to 12 years"},
			Popularity:   98,
		},
		{
			ID:           2,
			Name:         "Pembroke Welsh Corgi",
			Description:  "A small herding dog known for its short legs, fox-like face and clever, lively temperament.",
			Image:        "/breeds/pembroke-welsh-corgi.jpg",
			Category:     breeds.CategorySmall,
			Personality:  []string{"smart", "lively", "loyal"},
			Stats:        breeds.Stats{Friendliness: 4, EnergyLevel: 4, Trainability: 4, GroomingNeeds: 3, Adaptability: 4},
			History:      "Corgis were bred in Pembrokeshire, Wales, to herd cattle by nipping at their heels.",
			CareNeeds:    "Moderate exercise, frequent brushing during shedding season, weight control.",
			HealthIssues: "Intervertebral disc disease, hip dysplasia, obesity.",
			FunFacts:     []string{"A royal favourite in the United Kingdom", "Their low build lets them dodge kicking cattle"},
			Popularity:   90,
		},
		{
			ID:           3,
			Name:         "Golden Retriever",
			Description:  "A gentle, eager-to-please retriever with a dense golden coat and a famously patient nature.",
			Image:        "/breeds/golden-retriever.jpg",
			Category:     breeds.CategoryLarge,
			Personality:  []string{"friendly", "gentle", "smart"},
			Stats:        breeds.Stats{Friendliness: 5, EnergyLevel: 4, Trainability: 5, GroomingNeeds: 4, Adaptability: 4},
			History:      "Developed in the Scottish Highlands in the 1860s as a gundog that could retrieve waterfowl.",
			CareNeeds:    "Daily exercise, brushing several times a week, regular grooming of feathering.",
			HealthIssues: "Hip dysplasia, certain cancers, heart disease.",
			FunFacts:     []string{"Frequently used as therapy and assistance dogs", "Can hold an egg in the mouth without breaking it"},
			Popularity:   96,
		},
		{
			ID:           4,
			Name:         "German Shepherd",
			Description:  "A confident, courageous working dog prized for its intelligence and versatility.",
			Image:        "/breeds/german-shepherd.jpg",
			Category:     breeds.CategoryLarge,
			Personality:  []string{"loyal", "brave", "smart"},
			Stats:        breeds.Stats{Friendliness: 3, EnergyLevel: 5, Trainability: 5, GroomingNeeds: 4, Adaptability: 3},
			History:      "Standardised in Germany in 1899 by Max von Stephanitz as the ideal herding dog.",
			CareNeeds:    "Vigorous daily exercise, mental work, heavy seasonal brushing.",
			HealthIssues: "Hip and elbow dysplasia, degenerative myelopathy, bloat.",
			FunFacts:     []string{"Widely used by police and search-and-rescue teams", "Among the first guide dogs for the blind"},
			Popularity:   92,
		},
		{
			ID:           5,
			Name:         "French Bulldog",
			Description:  "A compact, playful companion with bat ears and an easygoing, affectionate personality.",
			Image:        "/breeds/french-bulldog.jpg",
			Category:     breeds.CategorySmall,
			Personality:  []string{"playful", "calm", "friendly"},
			Stats:        breeds.Stats{Friendliness: 4, EnergyLevel: 2, Trainability: 3, GroomingNeeds: 2, Adaptability: 5},
			History:      "Descended from toy bulldogs brought to France by English lace workers in the 1800s.",
			CareNeeds:    "Short walks, heat avoidance, cleaning of facial folds.",
			HealthIssues: "Brachycephalic airway syndrome, spinal problems, skin allergies.",
			FunFacts:     []string{"Most cannot swim because of their build", "They rarely bark but are very vocal in other ways"},
			Popularity:   94,
		},
		{
			ID:           6,
			Name:         "Beagle",
			Description:  "A merry, curious scent hound that loves company and following its nose.",
			Image:        "/breeds/beagle.jpg",
			Category:     breeds.CategoryMedium,
			Personality:  []string{"curious", "friendly", "lively"},
			Stats:        breeds.Stats{Friendliness: 5, EnergyLevel: 4, Trainability: 3, GroomingNeeds: 2, Adaptability: 4},
			History:      "Beagles were developed in England to hunt hares in packs, with hunters following on foot.",
			CareNeeds:    "Daily walks on a leash, secure garden, occasional brushing.",
			HealthIssues: "Epilepsy, hypothyroidism, ear infections.",
			FunFacts:     []string{"Used by airports to sniff out contraband food", "Have around 220 million scent receptors"},
			Popularity:   85,
		},
		{
			ID:           7,
			Name:         "Poodle",
			Description:  "An elegant, highly intelligent dog with a curly, low-shedding coat.",
			Image:        "/breeds/poodle.jpg",
			Category:     breeds.CategoryMedium,
			Personality:  []string{"smart", "active", "proud"},
			Stats:        breeds.Stats{Friendliness: 4, EnergyLevel: 4, Trainability: 5, GroomingNeeds: 5, Adaptability: 4},
			History:      "Originally a German water retriever, the poodle was later refined in France.",
			CareNeeds:    "Professional grooming every few weeks, daily exercise and mental stimulation.",
			HealthIssues: "Addison's disease, hip dysplasia, eye disorders.",
			FunFacts:     []string{"The show clip was designed to keep joints warm in cold water", "Comes in standard, miniature and toy sizes"},
			Popularity:   88,
		},
		{
			ID:           8,
			Name:         "Siberian Husky",
			Description:  "A striking, athletic sled dog with boundless energy and a friendly, independent streak.",
			Image:        "/breeds/siberian-husky.jpg",
			Category:     breeds.CategoryLarge,
			Personality:  []string{"active", "friendly", "independent"},
			Stats:        breeds.Stats{Friendliness: 4, EnergyLevel: 5, Trainability: 2, GroomingNeeds: 4, Adaptability: 3},
			History:      "Bred by the Chukchi people of Siberia to pull light loads over long distances.",
			CareNeeds:    "Intense daily exercise, heavy brushing when shedding, escape-proof fencing.",
			HealthIssues: "Cataracts, hip dysplasia, zinc deficiency.",
			FunFacts:     []string{"Husky teams delivered diphtheria serum to Nome in 1925", "Often have one blue and one brown eye"},
			Popularity:   86,
		},
		{
			ID:           9,
			Name:         "Shiba Inu",
			Description:  "A small, spirited Japanese breed with a fox-like look and a bold, independent character.",
			Image:        "/breeds/shiba-inu.jpg",
			Category:     breeds.CategorySmall,
			Personality:  []string{"independent", "alert", "loyal"},
			Stats:        breeds.Stats{Friendliness: 3, EnergyLevel: 3, Trainability: 2, GroomingNeeds: 3, Adaptability: 4},
			History:      "One of Japan's oldest breeds, originally used to flush game in mountainous terrain.",
			CareNeeds:    "Daily walks, early socialisation, heavy brushing twice a year.",
			HealthIssues: "Allergies, patellar luxation, glaucoma.",
			FunFacts:     []string{"Known for the dramatic Shiba scream", "Famously clean and almost cat-like in grooming"},
			Popularity:   80,
		},
		{
			ID:           10,
			Name:         "Border Collie",
			Description:  "A tireless, brilliant herding dog that thrives on work and problem solving.",
			Image:        "/breeds/border-collie.jpg",
			Category:     breeds.CategoryMedium,
			Personality:  []string{"smart", "active", "loyal"},
			Stats:        breeds.Stats{Friendliness: 4, EnergyLevel: 5, Trainability: 5, GroomingNeeds: 3, Adaptability: 3},
			History:      "Developed on the border between Scotland and England to herd sheep.",
			CareNeeds:    "Hours of exercise and mental challenges daily, regular brushing.",
			HealthIssues: "Collie eye anomaly, epilepsy, hip dysplasia.",
			FunFacts:     []string{"Often ranked as the most intelligent dog breed", "Control sheep with an intense stare called the eye"},
			Popularity:   84,
		},
	}
}
