package service

// Word lists for the random candidate generator. Synthesized values always
// satisfy the write-boundary constraints by construction.
var firstNames = []string{
	"Alexandru", "Maria", "Ion", "Elena", "Mihai", "Ana", "Gheorghe", "Ioana",
	"Andrei", "Cristina", "Radu", "Simona", "Dan", "Raluca", "Adrian", "Roxana",
}

var lastNames = []string{
	"Popescu", "Ionescu", "Popa", "Stan", "Stoica", "Dumitrescu", "Georgescu",
	"Constantinescu", "Marin", "Diaconu", "Vlad", "Câmpeanu", "Moldovan", "Rus",
	"Barbu", "Nistor",
}

var backgrounds = []string{
	"Experienced local administrator with focus on community development and public services improvement.",
	"Former business leader with expertise in economic development and job creation initiatives.",
	"Legal professional specializing in public policy and constitutional law with parliamentary experience.",
	"Academic researcher with background in social sciences and public administration.",
	"Healthcare professional advocating for medical system reform and public health initiatives.",
	"Former journalist and communication specialist focused on transparency and media relations.",
	"Engineering background with expertise in infrastructure development and urban planning.",
	"Education sector veteran promoting educational reform and student welfare programs.",
	"Environmental advocate with experience in sustainable development and green policies.",
	"Technology entrepreneur focused on digital transformation and innovation in governance.",
}
