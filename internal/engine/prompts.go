package engine

// Prompts are part of the engine's observable behavior: the generated story
// is French, the response schemas are fixed, and the classifier prompts ask
// for explicit labels that the parsing adapters in internal/llm extract.

const codexSystemPrompt = "Tu es un assistant expert en narration interactive. Réponds uniquement en JSON strict."

const codexPromptTemplate = `Tu es un générateur de Codex narratif pour un jeu d'aventure interactif.
Réponds UNIQUEMENT en JSON strict, sans texte avant ou après.

RAPPELS IMPORTANTS :
- Pas de texte hors JSON.
- Pas de markdown.
- Pas de commentaires.
- Pas de champs manquants.
- Toutes les valeurs doivent être des valeurs JSON valides.
- La langue doit être le français.
- Tu dois remplir le JSON avec du contenu original cohérent avec le thème.

Le Codex doit contenir exactement les champs suivants :
{
  "pitch": "Résumé immersif du monde.",
  "univers": "Description du monde.",
  "personnages": ["nom1", "nom2"],
  "lieux": ["lieu1", "lieu2"],
  "milestones": ["objectif1", "objectif2", "objectif3", "objectif4"]
}

Le thème est : "%s".`

const sceneSystemPrompt = "Tu es un moteur narratif expert. Réponds uniquement en JSON strict."

const scenePromptTemplate = `Tu es un moteur narratif pour un jeu interactif.
Réponds UNIQUEMENT en JSON strict, sans texte avant ou après.

RAPPELS IMPORTANTS :
- Pas de texte hors JSON.
- Pas de commentaires.
- Pas de markdown.
- Pas de variables ou expressions.
- Toutes les valeurs doivent être des valeurs JSON valides : true, false, strings, arrays, objects.
- Les champs doivent contenir directement les valeurs finales.

CONTEXTE :
Codex : %s
État actuel : %s
Action du joueur : %s

Résumé des événements récents :
%s

Mémoire longue pertinente :
%s

Contexte du lore :
%s

FORMAT EXACT À RESPECTER :
{
  "scene_text": "Texte immersif ici.",
  "choices": ["choix 1", "choix 2"],
  "consequences": {
    "milestone_progress": true,
    "flags": {"quete_active": false},
    "inventory_add": []
  }
}`

const intentSystemPrompt = "Tu es un agent ReAct expert."

const intentPromptTemplate = `Tu es un agent ReAct chargé de classifier l'intention du joueur.

IN_GAME = action dans l'univers du jeu
OUT_OF_GAME = question hors jeu, recette, info réelle, etc.

Format ReAct :
Thought:
Action: classify
Observation:
Final Answer: IN_GAME ou OUT_OF_GAME

Message du joueur :
"%s"`

const autoContinueSystemPrompt = "Tu es un agent de décision narratif."

const autoContinuePromptTemplate = `Tu es un agent de décision pour un jeu narratif. La langue à utiliser est le français.

Ta tâche : déterminer si l'histoire doit continuer automatiquement
ou si on doit attendre une action du joueur.

Règles :
- S'il y a des choix → WAIT_FOR_PLAYER
- S'il n'y a aucun choix → AUTO_CONTINUE
- Si la scène est une transition narrative → AUTO_CONTINUE
- Si la scène demande explicitement une action → WAIT_FOR_PLAYER

Données :
Scène : %s
État : %s
Codex : %s

Réponds uniquement par :
AUTO_CONTINUE
ou
WAIT_FOR_PLAYER`

// OutOfGameText is the fixed redirect shown when the player leaves the
// narrative frame.
const OutOfGameText = "Tu sembles t'éloigner de l'aventure. " +
	"Si tu veux continuer l'histoire, décris une action dans l'univers du jeu. " +
	"Sinon, tu peux quitter la partie à tout moment."
